// Package availability decides, for each stored association, whether its
// script file and every table it references currently exist. The result is
// derived on demand and never persisted.
package availability
