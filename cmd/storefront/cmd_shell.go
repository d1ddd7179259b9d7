package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_storefront/internal/form"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/pages"
	"github.com/Skotchmaster/food_storefront/internal/util"
)

const shellHelp = `commands:
  go <login|register|products|create|cart>   open a page
  show                                       print the current page
  set <field> <value>                        fill a form field
  attach <path> | detach                     image file for a new product
  submit                                     submit the current form
  search <term> | category <name> | list [page]
  add <id>                                   add a listed product to the cart
  inc <id> | dec <id> | remove <id>          change the cart
  session | logout | help | quit`

var shellRoutes = map[string]pages.Route{
	"login":    pages.RouteLogin,
	"register": pages.RouteRegister,
	"products": pages.RouteProducts,
	"create":   pages.RouteCreateProduct,
	"cart":     pages.RouteCart,
}

// storefront shell
func newShellCmd() *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive storefront",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, bootOptions{sampleCart: sample}, func(ctx context.Context, rt *runtime) error {
				return runShell(ctx, rt, cmd.InOrStdin())
			})
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "seed the cart with sample entries")
	return cmd
}

type shell struct {
	rt   *runtime
	out  io.Writer
	page int
}

func runShell(ctx context.Context, rt *runtime, in io.Reader) error {
	s := &shell{rt: rt, out: rt.out, page: 1}
	fmt.Fprintln(s.out, "storefront shell, type help")
	s.navigate(ctx, pages.RouteLogin)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "%s> ", rt.app.Current())
		if !sc.Scan() {
			break
		}
		if ctx.Err() != nil {
			return nil
		}
		if quit := s.exec(ctx, sc.Text()); quit {
			return nil
		}
	}
	fmt.Fprintln(s.out)
	return sc.Err()
}

func (s *shell) exec(ctx context.Context, line string) (quit bool) {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	l := s.rt.logger.With("component", "shell", "command", name)

	var err error
	switch name {
	case "":
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	case "go":
		route, ok := shellRoutes[rest]
		if !ok {
			err = fmt.Errorf("unknown page %q", rest)
			break
		}
		s.page = 1
		s.navigate(ctx, route)
	case "show":
		s.show(ctx)
	case "set":
		field, value, _ := strings.Cut(rest, " ")
		err = s.set(field, value)
	case "attach":
		err = s.attach(rest)
	case "detach":
		s.rt.app.CreateProduct.Attach(nil)
	case "submit":
		s.submit(ctx)
	case "search":
		s.rt.app.Products.SetSearch(rest)
		s.page = 1
		s.show(ctx)
	case "category":
		s.rt.app.Products.SetCategory(rest)
		s.page = 1
		s.show(ctx)
	case "list":
		s.page = max(1, util.ParseIntDefault(rest, 1))
		s.show(ctx)
	case "add":
		var out pages.Outcome
		out, err = s.rt.app.Products.AddToCart(ctx, util.ParseIntDefault(rest, 0))
		printOutcome(s.out, out)
	case "inc", "dec", "remove":
		err = s.changeCart(name, rest)
	case "session":
		err = runSession(ctx, s.rt)
	case "logout":
		var out pages.Outcome
		_, out, err = s.rt.app.Logout(ctx)
		printOutcome(s.out, out)
		if err == nil {
			fmt.Fprintln(s.out, "Logged out.")
		}
	default:
		err = fmt.Errorf("unknown command %q, try help", name)
	}

	if err != nil {
		l.Debug("shell_command_error", "error", err)
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	return false
}

func (s *shell) navigate(ctx context.Context, to pages.Route) {
	route, out, err := s.rt.app.Navigate(ctx, to)
	printOutcome(s.out, out)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if route != to {
		fmt.Fprintf(s.out, "now on %s\n", route)
	}
	s.show(ctx)
}

func (s *shell) show(ctx context.Context) {
	app := s.rt.app
	switch app.Current() {
	case pages.RouteLogin:
		_ = form.Render(s.out, app.Login.Views())
	case pages.RouteRegister:
		_ = form.Render(s.out, app.Register.Views())
	case pages.RouteCreateProduct:
		_ = form.Render(s.out, app.CreateProduct.Views())
		printPreview(s.out, app.CreateProduct.Preview())
	case pages.RouteProducts:
		printListing(s.out, app.Products.List(ctx, s.page))
	case pages.RouteCart:
		printCart(s.out, app.Cart.Entries(), app.Cart.Totals())
		_ = form.Render(s.out, app.Cart.Views())
	}
}

func (s *shell) set(field, value string) error {
	app := s.rt.app
	switch app.Current() {
	case pages.RouteLogin:
		return setField(app.Login.Views(), field, func() { app.Login.Set(models.LoginField(field), value) })
	case pages.RouteRegister:
		return setField(app.Register.Views(), field, func() { app.Register.Set(models.RegisterField(field), value) })
	case pages.RouteCreateProduct:
		return setField(app.CreateProduct.Views(), field, func() { app.CreateProduct.Set(models.ProductField(field), value) })
	case pages.RouteCart:
		return setField(app.Cart.Views(), field, func() { app.Cart.Set(models.OrderField(field), value) })
	}
	return errors.New("this page has no form")
}

func setField(views []form.View, field string, apply func()) error {
	if !slices.ContainsFunc(views, func(v form.View) bool { return v.Name == field }) {
		names := make([]string, 0, len(views))
		for _, v := range views {
			names = append(names, v.Name)
		}
		return fmt.Errorf("unknown field %q, one of %s", field, strings.Join(names, ", "))
	}
	apply()
	return nil
}

func (s *shell) attach(path string) error {
	if s.rt.app.Current() != pages.RouteCreateProduct {
		return errors.New("attach only works on the create page")
	}
	att, err := readAttachment(path)
	if err != nil {
		return err
	}
	s.rt.app.CreateProduct.Attach(att)
	return nil
}

func (s *shell) submit(ctx context.Context) {
	app := s.rt.app

	var (
		out   pages.Outcome
		views []form.View
		err   error
	)
	switch app.Current() {
	case pages.RouteLogin:
		out, err = app.Login.Submit(ctx)
		views = app.Login.Views()
	case pages.RouteRegister:
		out, err = app.Register.Submit(ctx)
		views = app.Register.Views()
	case pages.RouteCreateProduct:
		var created *models.Product
		out, created, err = app.CreateProduct.Submit(ctx)
		views = app.CreateProduct.Views()
		if created != nil {
			fmt.Fprintf(s.out, "Created product %d\n", created.ID)
		}
	case pages.RouteCart:
		out, err = app.Cart.Submit(ctx)
		views = app.Cart.Views()
	default:
		fmt.Fprintln(s.out, "error: nothing to submit here")
		return
	}

	if err := report(s.out, views, pages.Outcome{Notice: out.Notice}, err); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	if out.Redirect != "" {
		s.page = 1
		s.navigate(ctx, out.Redirect)
	}
}

func (s *shell) changeCart(op, arg string) error {
	if s.rt.app.Current() != pages.RouteCart {
		return errors.New("open the cart first")
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("bad id %q", arg)
	}
	c := s.rt.app.Cart
	switch op {
	case "inc":
		c.Increment(id)
	case "dec":
		c.Decrement(id)
	case "remove":
		c.Remove(id)
	}
	printCart(s.out, c.Entries(), c.Totals())
	return nil
}
