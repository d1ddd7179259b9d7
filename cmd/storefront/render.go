package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Skotchmaster/food_storefront/internal/cart"
	"github.com/Skotchmaster/food_storefront/internal/form"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/pages"
)

func printOutcome(w io.Writer, out pages.Outcome) {
	if out.Notice != nil {
		fmt.Fprintf(w, "[%s] %s\n", out.Notice.Kind, out.Notice.Message)
	}
	if out.Redirect != "" {
		fmt.Fprintf(w, "-> %s\n", out.Redirect)
	}
}

// report prints the result of a submit. Validation failures show the form
// with its errors.
func report(w io.Writer, views []form.View, out pages.Outcome, err error) error {
	if errors.Is(err, pages.ErrValidation) {
		_ = form.Render(w, views)
	}
	printOutcome(w, out)
	return err
}

func printListing(w io.Writer, l pages.Listing) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, p := range l.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, cart.Format(p.Price))
	}
	_ = tw.Flush()

	source := "local"
	if l.Remote {
		source = "search"
	}
	fmt.Fprintf(w, "page %d/%d, %d product(s), %s results\n", l.Page, max(l.TotalPages, 1), l.Total, source)
	fmt.Fprintf(w, "categories: %v\n", l.Categories)
}

func printCart(w io.Writer, entries []models.CartEntry, totals cart.Totals) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Cart is empty.")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(entries) > 0 {
		fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tLINE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", e.ID, e.Name, e.Quantity, cart.Format(e.UnitPrice), cart.Format(cart.LineTotal(e)))
		}
	}
	fmt.Fprintf(tw, "\t\t\tSubtotal\t%s\n", cart.Format(totals.Subtotal))
	fmt.Fprintf(tw, "\t\t\tTax (12%%)\t%s\n", cart.Format(totals.Tax))
	fmt.Fprintf(tw, "\t\t\tDelivery\t%s\n", cart.Format(totals.Delivery))
	fmt.Fprintf(tw, "\t\t\tTotal\t%s\n", cart.Format(totals.Total))
	_ = tw.Flush()
}

func printPreview(w io.Writer, p pages.Preview) {
	fmt.Fprintf(w, "Preview: %s [%s] %s\n  %s\n  image: %s\n", p.Name, p.Category, p.Price, p.Description, p.Image)
}
