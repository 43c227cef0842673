// Package engine selects and runs script interpreters. A Registry holds an
// ordered list of engine registrations, each matching a set of file
// extensions; Dispatch picks the first registration matching a script's
// extension, binds a fresh `ccdd` access handler into the script's scope
// and evaluates it.
//
// Interpreters that live outside this binary run as child processes in
// their own process group, so a cancelled batch can kill a script outright.
// Process engines are declared in HCL manifests:
//
//	engine "python" {
//	  description = "Python 3"
//	  version     = "3"
//	  extensions  = ["py"]
//	  command     = ["python3"]
//	}
package engine
