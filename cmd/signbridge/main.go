// Command signbridge recognizes sign-language gestures from a camera and
// serves the results to a browser.
package main

func main() {
	Execute()
}
