package overrides

import "strings"

const camlLDLibraryPath = "CAML_LD_LIBRARY_PATH"

// LibVar returns the esy placeholder for the installed lib directory of
// the opam package name, e.g. "$opam_lambda_term__lib".
func LibVar(name string) string {
	return "$opam_" + strings.ReplaceAll(name, "-", "_") + "__lib"
}

// CamlLDLibraryPath builds the export that puts the stub libraries found
// under subdir of name's lib directory onto CAML_LD_LIBRARY_PATH for every
// transitive consumer.
func CamlLDLibraryPath(name, subdir string) map[string]ExportedVar {
	return map[string]ExportedVar{
		camlLDLibraryPath: {
			Scope: ScopeGlobal,
			Val:   LibVar(name) + "/" + subdir + ":$" + camlLDLibraryPath,
		},
	}
}
