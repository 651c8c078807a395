package config

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   "~/.local/share/kiln/logs",
			CacheDir: "~/.cache/kiln",
		},
		Toolchain: Toolchain{
			JavaBinary:     "java",
			CoursierBinary: "cs",
			CompilerCoordinates: []string{
				"org.scala-lang:scala-compiler:2.13.14",
			},
			ServerEntryClass:  "scala.tools.nsc.CompileServer",
			CompileEntryClass: "scala.tools.nsc.Main",
		},
		Server: Server{
			Service:             "scalac",
			ReadyTimeoutSeconds: 30,
			PollIntervalMillis:  200,
		},
		Bootstrap: Bootstrap{
			InstallEntryClass: "kiln.build.Install",
			SourceGlobs:       []string{"*.scala", "src/*.scala"},
			OutputDir:         "target/classes",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		History: History{
			Enabled: true,
		},
	}
}
