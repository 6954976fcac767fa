package constants

const (
	EnvLogLevel = "MATHLANG_LOG_LEVEL"
	EnvDebug    = "MATHLANG_DEBUG"
)

// Config keys of a DSL `config:` block (spec §3 Config node). The
// evaluator reads ConfigChecker and ConfigFuzzyDimension; no code reads
// ConfigRulesetVersion (the registry's engine version comes from the
// CLI's --ruleset-version flag).
const (
	ConfigRulesetVersion = "ruleset_version"
	ConfigChecker        = "checker"
	ConfigFuzzyDimension = "fuzzy_dimension"
)
