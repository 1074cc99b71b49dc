package logger

// OutputCategory is a kind of output the CLI may print. Categories are gated
// by verbosity independently of log severity.
//
//	0 (default) - written files, diagnostics, final status
//	1 (-v)      - + job progress, watch events
//	2 (-vv)     - + import resolution, timing, loaded config
//	3 (-vvv)    - + template sources, resolved AST listing
type OutputCategory int

const (
	OutputResults OutputCategory = iota // Files written, generated text
	OutputErrors                        // Diagnostics with hints
	OutputStatus                        // Final success or failure line

	OutputProgress // "compiling Widget.idl (3/10)"
	OutputWatch    // Change notifications in watch mode

	OutputImports // Each import resolved or skipped
	OutputTiming  // Per-unit render times
	OutputConfig  // Config file and values in effect

	OutputTemplates // Which template file renders each unit
	OutputASTDump   // Full resolved AST listing
)

var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,
	OutputStatus:  VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputWatch:    VerbosityInfo,

	OutputImports: VerbosityDebug,
	OutputTiming:  VerbosityDebug,
	OutputConfig:  VerbosityDebug,

	OutputTemplates: VerbosityTrace,
	OutputASTDump:   VerbosityTrace,
}

// ShouldOutput reports whether category is shown at verbosity.
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:   "results",
	OutputErrors:    "errors",
	OutputStatus:    "status",
	OutputProgress:  "progress",
	OutputWatch:     "watch",
	OutputImports:   "imports",
	OutputTiming:    "timing",
	OutputConfig:    "config",
	OutputTemplates: "templates",
	OutputASTDump:   "ast-dump",
}

func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// EnabledCategories returns the categories shown at verbosity, in declaration order.
func EnabledCategories(verbosity int) []OutputCategory {
	var enabled []OutputCategory
	for cat := OutputResults; cat <= OutputASTDump; cat++ {
		if ShouldOutput(verbosity, cat) {
			enabled = append(enabled, cat)
		}
	}
	return enabled
}
