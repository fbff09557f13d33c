package input

// robotButton is the robotgo name for b. robotgo calls the middle button
// "center" and treats any name it does not know as left.
func robotButton(b Button) string {
	if b == ButtonMiddle {
		return "center"
	}
	return string(b)
}
