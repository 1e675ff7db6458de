package main

import (
	"fmt"

	"github.com/kvswiss/swisstable"
)

func main() {
	t := swisstable.New[string, int]()
	for i, word := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		t.Set(word, i)
	}

	t.Remove("bravo")

	if v, ok := t.Get("charlie"); ok {
		fmt.Println("charlie:", v)
	}

	fmt.Println(t)

	for k, v := range t.All() {
		fmt.Println(k, "=", v)
	}
}
