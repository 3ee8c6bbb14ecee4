// Command fieldmap runs declarative record transformations described by a
// YAML mapping specification.
package main

func main() {
	Execute()
}
