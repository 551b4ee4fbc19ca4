// Package shell is a line-oriented storefront front end. It drives the
// controller from a single goroutine and prints notices inline.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fusionwear/storefront/internal/browse"
	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/internal/chat"
	"github.com/fusionwear/storefront/internal/state"
	"github.com/fusionwear/storefront/internal/storefront"
	"github.com/fusionwear/storefront/pkg/enums"
	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
	"github.com/fusionwear/storefront/pkg/logger"
)

const (
	prompt           = "fusion> "
	cartEmptyMsg     = "Your cart is empty."
	wishlistEmptyMsg = "Your wishlist is empty."
	recentEmptyMsg   = "Nothing viewed yet."
	nothingPending   = "Nothing to confirm."
	pickCollection   = "Pick a collection first: browse <collection>"
)

// Asker sends a message to the assistant. *chat.Client satisfies it.
type Asker interface {
	Ask(ctx context.Context, message string) (*chat.Reply, error)
}

// Config wires the shell. Catalog may be nil when loading failed; Asker may
// be nil when no proxy is configured.
type Config struct {
	Out     io.Writer
	Catalog *catalog.Catalog
	Store   *state.Store
	Asker   Asker
	Logger  *logger.Logger
}

type Shell struct {
	out   io.Writer
	cat   *catalog.Catalog
	ctrl  *storefront.Controller
	asker Asker
	logg  *logger.Logger

	query    browse.Query
	browsing bool

	cartCount     int
	wishlistCount int
	pending       storefront.ConfirmTarget
}

// New hydrates the controller with the shell as its presenter.
func New(ctx context.Context, cfg Config) *Shell {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	logg := cfg.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Shell{
		out:   out,
		cat:   cfg.Catalog,
		asker: cfg.Asker,
		logg:  logg,
		query: browse.Query{}.Normalized(),
	}
	s.ctrl = storefront.NewController(ctx, cfg.Store, s, logg)
	return s
}

// Controller exposes the underlying controller.
func (s *Shell) Controller() *storefront.Controller {
	return s.ctrl
}

// Refresh prints the badge line when counts change and the confirmation
// prompt when one opens.
func (s *Shell) Refresh(st storefront.State) {
	cart, wish := st.CartItemCount(), st.WishlistItemCount()
	if s.ctrl != nil && (cart != s.cartCount || wish != s.wishlistCount) {
		fmt.Fprintf(s.out, "[cart: %d | wishlist: %d]\n", cart, wish)
	}
	s.cartCount, s.wishlistCount = cart, wish

	if st.Pending != storefront.ConfirmNone && st.Pending != s.pending {
		fmt.Fprintf(s.out, "%s (confirm/cancel)\n", st.Pending.Prompt())
	}
	s.pending = st.Pending
}

func (s *Shell) Notify(n storefront.Notice) {
	fmt.Fprintf(s.out, "» %s\n", n.Message)
}

// Run reads commands until quit or EOF.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Welcome to Fusion. Type help for commands.")
	if s.cat == nil {
		fmt.Fprintln(s.out, catalog.UnavailableMessage)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if quit := s.Execute(ctx, scanner.Text()); quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	name, arg := splitCommand(line)
	if name == "" {
		return false
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(s.out, "Unknown command %q. Type help for commands.\n", name)
		return false
	}
	if cmd.needsArg && arg == "" {
		fmt.Fprintf(s.out, "usage: %s %s\n", name, cmd.usage)
		return false
	}
	return cmd.run(ctx, s, arg)
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	name, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(rest)
}

func (s *Shell) product(id string) (catalog.Product, bool) {
	p, ok := s.cat.FindByID(id)
	if !ok {
		fmt.Fprintf(s.out, "Unknown product %q.\n", id)
	}
	return p, ok
}

func (s *Shell) reportError(ctx context.Context, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		s.logg.Error(ctx, "shell.command_failed", err)
		fmt.Fprintln(s.out, "Something went wrong.")
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "shell.command_rejected")
	fmt.Fprintln(s.out, typed.Message())
}

func (s *Shell) printCollections() {
	if s.cat == nil {
		fmt.Fprintln(s.out, catalog.UnavailableMessage)
		return
	}
	collections := s.cat.Collections()
	if len(collections) == 0 {
		fmt.Fprintln(s.out, "No collections available.")
		return
	}
	fmt.Fprintln(s.out, "Shop by collection:")
	for i, c := range collections {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, c)
	}
}

func (s *Shell) printListing() {
	view := storefront.RenderListing(s.cat, s.query, s.ctrl.State())
	if view.Message != "" && len(view.Cards) == 0 {
		fmt.Fprintln(s.out, view.Message)
		return
	}

	header := view.Query.Collection
	if view.Query.SearchTerm != "" {
		header += fmt.Sprintf(" matching %q", view.Query.SearchTerm)
	}
	if view.Query.Sort != enums.SortKeyDefault {
		header += " sorted " + view.Query.Sort.String()
	}
	fmt.Fprintln(s.out, header)
	for _, f := range view.ActiveFilters {
		fmt.Fprintf(s.out, "  filter %s = %s\n", f.Name, f.Value)
	}

	s.printCards(view.Cards)
}

func (s *Shell) printCards(cards []storefront.ProductCard) {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, c := range cards {
		price := c.Price
		if c.OriginalPrice != "" {
			price = fmt.Sprintf("%s (was %s, %s)", c.Price, c.OriginalPrice, c.DiscountLabel)
		}
		marks := ""
		if c.InWishlist {
			marks += " ♥"
		}
		if c.LowStockLabel != "" {
			marks += " " + c.LowStockLabel
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.ID, c.Name, price, strings.TrimSpace(marks))
	}
	_ = tw.Flush()
}

func (s *Shell) printCart() {
	vm := storefront.Render(s.ctrl.State(), s.cat)
	if vm.CartEmpty {
		fmt.Fprintln(s.out, cartEmptyMsg)
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, line := range vm.Cart {
		fmt.Fprintf(tw, "  %s\t%s\tx%d\t%s\n", line.ID, line.Name, line.Quantity, line.LineTotal)
	}
	_ = tw.Flush()
	fmt.Fprintf(s.out, "Subtotal: %s (%d items)\n", vm.Subtotal, vm.CartCount)
}

func (s *Shell) printWishlist() {
	vm := storefront.Render(s.ctrl.State(), s.cat)
	if vm.WishlistEmpty {
		fmt.Fprintln(s.out, wishlistEmptyMsg)
		return
	}
	s.printCards(vm.Wishlist)
}

func (s *Shell) printRecent() {
	vm := storefront.Render(s.ctrl.State(), s.cat)
	if len(vm.RecentlyViewed) == 0 {
		fmt.Fprintln(s.out, recentEmptyMsg)
		return
	}
	fmt.Fprintln(s.out, "Recently viewed:")
	s.printCards(vm.RecentlyViewed)
}

func (s *Shell) printQuickView(qv storefront.QuickView) {
	fmt.Fprintf(s.out, "%s | %s\n", qv.Name, qv.Price)
	if qv.DiscountLabel != "" {
		fmt.Fprintf(s.out, "  was %s, %s\n", qv.OriginalPrice, qv.DiscountLabel)
	}
	if qv.LowStockLabel != "" {
		fmt.Fprintf(s.out, "  %s\n", qv.LowStockLabel)
	}
	if qv.Description != "" {
		fmt.Fprintf(s.out, "  %s\n", qv.Description)
	}
	fmt.Fprintf(s.out, "  image: %s\n", qv.LargeImageURL)
}
