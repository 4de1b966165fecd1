// Command gcsize inspects how the object model sizes objects for allocation
// and for scavenge copies.
package main

func main() {
	execute()
}
