package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jpalmerr/globalstore"
	"github.com/jpalmerr/globalstore/component"
)

type product struct {
	ID       string
	Title    string
	Favorite bool
}

func main() {
	toggleFavorite := globalstore.Typed(func(s globalstore.State, id string) (globalstore.State, error) {
		products, _ := s["products"].([]product)
		next := make([]product, len(products))
		for i, p := range products {
			if p.ID == id {
				p.Favorite = !p.Favorite
			}
			next[i] = p
		}
		return globalstore.State{"products": next}, nil
	})

	store, err := globalstore.New(
		globalstore.WithName("products"),
		globalstore.WithInitialState(globalstore.State{
			"products": []product{
				{ID: "p1", Title: "Red Scarf"},
				{ID: "p2", Title: "Blue T-Shirt"},
				{ID: "p3", Title: "Green Trousers"},
			},
		}),
		globalstore.WithActions(globalstore.Actions{"toggle_favorite": toggleFavorite}),
	)
	if err != nil {
		slog.Error("failed to create store", "error", err)
		os.Exit(1)
	}

	// the favorites page listens; the product item only reads on its own renders
	var dispatch globalstore.DispatchFunc
	item := component.New(func(c *component.Instance) {
		_, dispatch = store.Use(c, false)
	})
	favorites := component.New(func(c *component.Instance) {
		state, _ := store.Use(c, true)
		products, _ := state["products"].([]product)
		fmt.Println("favorites:")
		for _, p := range products {
			if p.Favorite {
				fmt.Printf("  - %s\n", p.Title)
			}
		}
	})

	item.Mount()
	favorites.Mount()

	for _, id := range []string{"p1", "p3", "p1"} {
		if err := dispatch("toggle_favorite", id); err != nil {
			slog.Error("dispatch failed", "error", err)
			os.Exit(1)
		}
		favorites.Flush()
	}

	if err := dispatch("toggle_favourite", "p2"); err != nil {
		fmt.Println("error:", err)
	}

	favorites.Unmount()
	item.Unmount()
}
