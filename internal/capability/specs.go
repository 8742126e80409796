package capability

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// Capability names as the model sees them.
const (
	GetMenu              = "get_menu"
	PlaceOrder           = "place_order"
	CompleteOrder        = "complete_order"
	SwitchToRestaurant   = "switch_to_restaurant"
	GetNearbyRestaurants = "get_nearby_restaurants"
)

// specs declares every capability once; persona definitions select subsets by
// name.
func specs() map[string]*schema.ToolInfo {
	restaurantParam := &schema.ParameterInfo{
		Type:     schema.String,
		Desc:     "The restaurant to operate on",
		Enum:     []string{"burger", "pizza", "salad"},
		Required: true,
	}

	return map[string]*schema.ToolInfo{
		GetMenu: {
			Name: GetMenu,
			Desc: "Fetches the restaurant's menu items including names, descriptions, and prices.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"restaurant": restaurantParam,
			}),
		},
		PlaceOrder: {
			Name: PlaceOrder,
			Desc: "Place a food order with the specified restaurant.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"restaurant": restaurantParam,
				"items": {
					Type:     schema.Array,
					Desc:     "The list of items to order with their IDs and quantities",
					Required: true,
					ElemInfo: &schema.ParameterInfo{
						Type: schema.Object,
						SubParams: map[string]*schema.ParameterInfo{
							"id": {
								Type:     schema.Integer,
								Desc:     "The menu item ID from the menu",
								Required: true,
							},
							"quantity": {
								Type:     schema.Integer,
								Desc:     "The quantity to order, at least 1",
								Required: true,
							},
						},
					},
				},
			}),
		},
		CompleteOrder: {
			Name: CompleteOrder,
			Desc: "Mark the order as complete and return control to the orchestrator. Use this after the customer has confirmed their order.",
		},
		SwitchToRestaurant: {
			Name: SwitchToRestaurant,
			Desc: "Connect the customer to a restaurant specialist: burger for Burger House, pizza for Pizza Palace, salad for Fresh Greens.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"restaurant": restaurantParam,
			}),
		},
		GetNearbyRestaurants: {
			Name: GetNearbyRestaurants,
			Desc: "Get a list of nearby restaurants available for ordering food, including their price points and descriptions.",
		},
	}
}

// ToolInfos resolves capability names into eino tool declarations for model
// binding. Unknown names fail loudly at startup rather than silently binding a
// smaller set.
func ToolInfos(names []string) ([]*schema.ToolInfo, error) {
	all := specs()
	infos := make([]*schema.ToolInfo, 0, len(names))
	for _, name := range names {
		info, ok := all[name]
		if !ok {
			return nil, fmt.Errorf("unknown capability %q", name)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
