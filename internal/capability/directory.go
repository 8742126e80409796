package capability

import (
	"fmt"
	"strings"
)

type restaurantEntry struct {
	name        string
	kind        string
	pricePoint  string
	description string
}

var restaurantDirectory = []restaurantEntry{
	{name: "Pizza Palace", kind: "pizza", pricePoint: "moderate", description: "Italian-style pizzas with fresh ingredients"},
	{name: "Burger House", kind: "burger", pricePoint: "cheap", description: "Fast and affordable burgers"},
	{name: "Fresh Greens", kind: "salad", pricePoint: "moderate", description: "Healthy salads and fresh options"},
}

func nearbyRestaurants() string {
	var b strings.Builder
	b.WriteString("Nearby restaurants:\n")
	for _, r := range restaurantDirectory {
		fmt.Fprintf(&b, "%s (%s): %s price point - %s\n", r.name, r.kind, r.pricePoint, r.description)
	}
	return strings.TrimRight(b.String(), "\n")
}
