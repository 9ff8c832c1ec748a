//go:build !race

package postboard

func passwordHashCost() int {
	return 14
}
