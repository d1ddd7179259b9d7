package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/pages"
)

type cartOptions struct {
	sample   bool
	inc      []int
	dec      []int
	remove   []int
	checkout bool
	details  models.OrderDetails
}

// storefront cart
func newCartCmd() *cobra.Command {
	var o cartOptions
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart and optionally place the order",
		Long: "A one-shot cart starts empty unless --sample is given; " +
			"use the shell to fill it from the product listing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, bootOptions{sampleCart: o.sample}, func(ctx context.Context, rt *runtime) error {
				return runCart(ctx, rt, o)
			})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&o.sample, "sample", false, "start from the sample cart")
	f.IntSliceVar(&o.inc, "inc", nil, "increase quantity of product id")
	f.IntSliceVar(&o.dec, "dec", nil, "decrease quantity of product id (stops at 1)")
	f.IntSliceVar(&o.remove, "remove", nil, "remove product id")
	f.BoolVar(&o.checkout, "checkout", false, "submit the order")
	f.StringVar(&o.details.DeliveryAddress, "address", "", "delivery address")
	f.StringVar(&o.details.Phone, "phone", "", "phone")
	f.StringVar(&o.details.SpecialInstructions, "notes", "", "special instructions")
	return cmd
}

func runCart(ctx context.Context, rt *runtime, o cartOptions) error {
	if _, _, err := rt.app.Navigate(ctx, pages.RouteCart); err != nil {
		return err
	}
	p := rt.app.Cart
	for _, id := range o.inc {
		p.Increment(id)
	}
	for _, id := range o.dec {
		p.Decrement(id)
	}
	for _, id := range o.remove {
		p.Remove(id)
	}
	printCart(rt.out, p.Entries(), p.Totals())

	if !o.checkout {
		return nil
	}
	p.Set(models.OrderInstructions, o.details.SpecialInstructions)
	p.Set(models.OrderAddress, o.details.DeliveryAddress)
	p.Set(models.OrderPhone, o.details.Phone)

	out, err := p.Submit(ctx)
	return report(rt.out, p.Views(), out, err)
}
