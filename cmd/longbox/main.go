// Command longbox aggregates comic listings, scores deals against sale
// history, and matches them to want-list items.
package main

func main() {
	Execute()
}
