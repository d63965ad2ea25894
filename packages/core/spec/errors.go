package spec

// ConfigError reports a declaration that cannot resolve into a valid
// request: a singleton field with two or more values, an unencodable
// form, an unsupported scheme, or a template referencing an unknown
// context name. It is detected at call time and aborts the call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "declrest: " + e.Field + ": " + e.Reason
}
