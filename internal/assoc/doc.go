// Package assoc defines script associations: a script file bound to a set
// of table paths and group references that run together as one unit. It
// owns the member-spec syntax and the command-line shorthand for ad-hoc
// associations.
package assoc
