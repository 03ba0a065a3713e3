// Package connections models the arguments and outcome of a hosted bank
// connections session: the configuration handed to the session, its
// validation, and the result reported back once the session ends.
package connections
