package pcfg

// assert check exp, if exp == false, panic with message. It guards internal
// invariants only, bad input is reported with errors
func assert(exp bool, message string) {
	if !exp {
		panic(message)
	}
}
