package overrides

// Shell fragments spliced verbatim into build recipes. $cur__* are esy
// placeholders and must stay as written.
const (
	Cleanup     = "(make clean || true)"
	OpamInstall = "(opam-installer --prefix=$cur__install || true)"
)

// Builtin returns a fresh copy of the rules used to convert the public
// opam repository.
func Builtin() *Tables {
	return &Tables{
		PackageBlacklist: []string{
			"camlp4.4.03+system",
			"camlp4.4.02+system",
			"camlp4.4.04+system",
			"inotify.2.2", // no macOS support
			"inotify.2.3",
			"ocaml-data-notation.0.0.9",
			"lwt.2.6.0",
			"ppx_tools.5.0+4.03.0",
		},

		DepoptBlacklist: []string{
			"conf-libev",
			"lablgtk",
			"ssl",
			"mirage-xen",
			"mirage-xen-ocaml",
			"tyxml",
			"reactiveData",
			"deriving",
			"ocamlbuild",
			"js_of_ocaml",
		},

		// esy can't infer preprocessors that opam leaves out of depends.
		ExtraDeps: map[string][]string{
			"camomile": {"cppo", "camlp4"},
		},

		Overrides: map[string]*Override{
			"ocp-build": {
				Version: VersionStripBeta,
			},
			"typerex-build": {
				Version: VersionStripBeta,
				Build: BuildSteps{
					"./configure --prefix $cur__install",
					"make",
					"make install",
					OpamInstall,
				},
			},
			"ocamlbuild": {
				Build: BuildSteps{NoopBuild},
			},
			"cppo": {
				Build: BuildSteps{
					Cleanup,
					"make all",
					"make opt",
					"make ocamlbuild",
					"make LIBDIR=$cur__lib install-lib",
					"make BINDIR=$cur__bin install-bin",
					OpamInstall,
				},
			},

			"lwt":          {ExportedEnv: CamlLDLibraryPath("lwt", "lwt")},
			"lambda-term":  {ExportedEnv: CamlLDLibraryPath("lambda-term", "lambda-term")},
			"bin_prot":     {ExportedEnv: CamlLDLibraryPath("bin_prot", "stublibs")},
			"core_kernel":  {ExportedEnv: CamlLDLibraryPath("core_kernel", "stublibs")},
			"core":         {ExportedEnv: CamlLDLibraryPath("core", "stublibs")},
			"async_extra":  {ExportedEnv: CamlLDLibraryPath("async_extra", "stublibs")},
			"jenga":        {ExportedEnv: CamlLDLibraryPath("jenga", "stublibs")},
			"re2":          {ExportedEnv: CamlLDLibraryPath("re2", "stublibs")},
			"ppx_expect":   {ExportedEnv: CamlLDLibraryPath("ppx_expect", "stublibs")},
			"ocaml_plugin": {ExportedEnv: CamlLDLibraryPath("ocaml_plugin", "stublibs")},
			"async_unix":   {ExportedEnv: CamlLDLibraryPath("async_unix", "stublibs")},

			"cohttp":     {ExcludeDependencies: []string{"mirage-net"}},
			"conduit":    {ExcludeDependencies: []string{"mirage-dns"}},
			"ocamlgraph": {ExcludeDependencies: []string{"conf-gnomecanvas"}},
			"utop":       {ExcludeDependencies: []string{"camlp4"}},
			"vchan":      {ExcludeDependencies: []string{"xen-evtchn", "xen-gnt"}},
			"nocrypto":   {ExcludeDependencies: []string{"mirage-xen", "mirage-entropy-xen", "zarith-xen"}},
			"mtime":      {ExcludeDependencies: []string{"js_of_ocaml"}},
		},
	}
}
