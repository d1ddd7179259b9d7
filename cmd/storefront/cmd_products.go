package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/pages"
)

type listOptions struct {
	search   string
	category string
	page     int
	size     int
}

// storefront products
func newProductsCmd() *cobra.Command {
	var o listOptions
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, bootOptions{pageSize: o.size}, func(ctx context.Context, rt *runtime) error {
				return runProducts(ctx, rt, o)
			})
		},
	}
	cmd.Flags().StringVar(&o.search, "search", "", "match name or description")
	cmd.Flags().StringVar(&o.category, "category", "all", "category, or all")
	cmd.Flags().IntVar(&o.page, "page", 1, "page number")
	cmd.Flags().IntVar(&o.size, "size", 0, "page size (default PAGE_SIZE)")
	return cmd
}

func runProducts(ctx context.Context, rt *runtime, o listOptions) error {
	_, out, err := rt.app.Navigate(ctx, pages.RouteProducts)
	if err != nil {
		printOutcome(rt.out, out)
		return err
	}
	p := rt.app.Products
	p.SetSearch(o.search)
	p.SetCategory(o.category)
	printListing(rt.out, p.List(ctx, o.page))
	return nil
}

type productOptions struct {
	draft    models.ProductDraft
	filePath string
}

// storefront product create
func newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	var o productOptions
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product (requires login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, bootOptions{}, func(ctx context.Context, rt *runtime) error {
				return runCreateProduct(ctx, rt, o)
			})
		},
	}
	create.Flags().StringVar(&o.draft.Name, "name", "", "product name")
	create.Flags().StringVar(&o.draft.Description, "description", "", "description, at least 10 characters")
	create.Flags().StringVar(&o.draft.PriceText, "price", "", "price, e.g. 11.99")
	create.Flags().StringVar(&o.draft.ImageURL, "image", "", "image URL")
	create.Flags().StringVar(&o.draft.Category, "category", "", "category")
	create.Flags().StringVar(&o.filePath, "file", "", "image file to upload")

	cmd.AddCommand(create)
	return cmd
}

func runCreateProduct(ctx context.Context, rt *runtime, o productOptions) error {
	route, out, err := rt.app.Navigate(ctx, pages.RouteCreateProduct)
	if err != nil {
		return err
	}
	if route != pages.RouteCreateProduct {
		printOutcome(rt.out, out)
		fmt.Fprintln(rt.out, "Please log in first.")
		return errNotLoggedIn
	}

	p := rt.app.CreateProduct
	p.Set(models.ProductName, o.draft.Name)
	p.Set(models.ProductDescription, o.draft.Description)
	p.Set(models.ProductPrice, o.draft.PriceText)
	p.Set(models.ProductImage, o.draft.ImageURL)
	p.Set(models.ProductCategory, o.draft.Category)
	if o.filePath != "" {
		att, err := readAttachment(o.filePath)
		if err != nil {
			return err
		}
		p.Attach(att)
	}
	printPreview(rt.out, p.Preview())

	out, created, err := p.Submit(ctx)
	if err == nil && created != nil {
		fmt.Fprintf(rt.out, "Created product %d\n", created.ID)
	}
	return report(rt.out, p.Views(), out, err)
}

func readAttachment(path string) (*models.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return &models.Attachment{Filename: filepath.Base(path), Data: data}, nil
}
