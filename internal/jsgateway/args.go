package jsgateway

// Arg is a positional JS call argument. Value is only meaningful when
// IsString is set; js.Value.String renders other types as "<undefined>",
// "<null>" and so on.
type Arg struct {
	IsString bool
	Value    string
}

// StringArgs returns the first n arguments as strings. Missing and non-string
// arguments become "".
func StringArgs(args []Arg, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(args); i++ {
		if args[i].IsString {
			out[i] = args[i].Value
		}
	}
	return out
}
