package shell

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fusionwear/storefront/internal/browse"
	"github.com/fusionwear/storefront/pkg/enums"
)

type command struct {
	usage    string
	help     string
	needsArg bool
	run      func(ctx context.Context, s *Shell, arg string) bool
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":           {help: "list commands", run: cmdHelp},
		"quit":           {help: "leave the shell", run: func(context.Context, *Shell, string) bool { return true }},
		"collections":    {help: "list collections", run: cmdCollections},
		"browse":         {usage: "<collection>", help: "open a collection", needsArg: true, run: cmdBrowse},
		"search":         {usage: "[term]", help: "search names and categories in the open collection", run: cmdSearch},
		"sort":           {usage: "<key>", help: "sort the listing (" + sortKeyList() + ")", needsArg: true, run: cmdSort},
		"filter":         {usage: "<material|price|features> <value>", help: "narrow the listing", needsArg: true, run: cmdFilter},
		"unfilter":       {usage: "<material|price|features>", help: "remove one filter", needsArg: true, run: cmdUnfilter},
		"reset":          {help: "clear search, sort and filters", run: cmdReset},
		"back":           {help: "back to collections", run: cmdBack},
		"view":           {usage: "<id>", help: "quick view a product", needsArg: true, run: cmdView},
		"add":            {usage: "<id>", help: "add a product to the cart", needsArg: true, run: cmdAdd},
		"remove":         {usage: "<id>", help: "remove a cart line", needsArg: true, run: cmdRemove},
		"inc":            {usage: "<id>", help: "increase a cart quantity", needsArg: true, run: cmdInc},
		"dec":            {usage: "<id>", help: "decrease a cart quantity", needsArg: true, run: cmdDec},
		"wish":           {usage: "<id>", help: "add a product to the wishlist", needsArg: true, run: cmdWish},
		"unwish":         {usage: "<id>", help: "remove a product from the wishlist", needsArg: true, run: cmdUnwish},
		"move":           {usage: "<id>", help: "move a wishlist product to the cart", needsArg: true, run: cmdMove},
		"cart":           {help: "show the cart", run: func(_ context.Context, s *Shell, _ string) bool { s.printCart(); return false }},
		"wishlist":       {help: "show the wishlist", run: func(_ context.Context, s *Shell, _ string) bool { s.printWishlist(); return false }},
		"recent":         {help: "show recently viewed products", run: func(_ context.Context, s *Shell, _ string) bool { s.printRecent(); return false }},
		"clear-cart":     {help: "empty the cart (asks first)", run: cmdClearCart},
		"clear-wishlist": {help: "empty the wishlist (asks first)", run: cmdClearWishlist},
		"confirm":        {help: "confirm the pending clear", run: cmdConfirm},
		"cancel":         {help: "cancel the pending clear", run: cmdCancel},
		"ask":            {usage: "<message>", help: "ask the Fusion assistant", needsArg: true, run: cmdAsk},
	}
}

func sortKeyList() string {
	keys := enums.SortKeys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return strings.Join(out, ", ")
}

func cmdHelp(_ context.Context, s *Shell, _ string) bool {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		usage := name
		if cmd.usage != "" {
			usage += " " + cmd.usage
		}
		fmt.Fprintf(s.out, "  %-42s %s\n", usage, cmd.help)
	}
	return false
}

func cmdCollections(_ context.Context, s *Shell, _ string) bool {
	s.printCollections()
	return false
}

func cmdBrowse(_ context.Context, s *Shell, arg string) bool {
	if s.cat == nil {
		s.printListing()
		return false
	}
	name, ok := s.matchCollection(arg)
	if !ok {
		fmt.Fprintf(s.out, "Unknown collection %q.\n", arg)
		return false
	}
	s.query = browse.Query{Collection: name}.Normalized()
	s.browsing = true
	s.printListing()
	return false
}

// matchCollection accepts an exact name, a case-insensitive name or the
// number printed by collections.
func (s *Shell) matchCollection(arg string) (string, bool) {
	collections := s.cat.Collections()
	for _, c := range collections {
		if c == arg {
			return c, true
		}
	}
	for _, c := range collections {
		if strings.EqualFold(c, arg) {
			return c, true
		}
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(collections) {
		return collections[n-1], true
	}
	return "", false
}

func (s *Shell) requireCollection() bool {
	if !s.browsing {
		fmt.Fprintln(s.out, pickCollection)
		return false
	}
	return true
}

func cmdSearch(_ context.Context, s *Shell, arg string) bool {
	if !s.requireCollection() {
		return false
	}
	s.query.SearchTerm = arg
	s.printListing()
	return false
}

func cmdSort(_ context.Context, s *Shell, arg string) bool {
	if !s.requireCollection() {
		return false
	}
	key, err := enums.ParseSortKey(arg)
	if err != nil {
		fmt.Fprintf(s.out, "Unknown sort %q. Use one of: %s\n", arg, sortKeyList())
		return false
	}
	s.query.Sort = key
	s.printListing()
	return false
}

func cmdFilter(_ context.Context, s *Shell, arg string) bool {
	if !s.requireCollection() {
		return false
	}
	name, value, _ := strings.Cut(arg, " ")
	name = strings.ToLower(name)
	value = strings.TrimSpace(value)
	if !validFilter(name) || value == "" {
		fmt.Fprintln(s.out, "usage: filter <material|price|features> <value>")
		if validFilter(name) {
			s.printFilterOptions(name)
		}
		return false
	}
	s.query = s.query.With(name, value)
	s.printListing()
	return false
}

func cmdUnfilter(_ context.Context, s *Shell, arg string) bool {
	if !s.requireCollection() {
		return false
	}
	name := strings.ToLower(arg)
	if !validFilter(name) {
		fmt.Fprintln(s.out, "usage: unfilter <material|price|features>")
		return false
	}
	s.query = s.query.Without(name)
	s.printListing()
	return false
}

func validFilter(name string) bool {
	switch name {
	case browse.FilterMaterial, browse.FilterPrice, browse.FilterFeatures:
		return true
	}
	return false
}

func (s *Shell) printFilterOptions(name string) {
	if s.cat == nil {
		return
	}
	opts := browse.FilterOptions(s.cat.Products(), s.query.Collection)
	var values []string
	switch name {
	case browse.FilterMaterial:
		values = opts.Materials
	case browse.FilterPrice:
		values = opts.PriceRanges
	case browse.FilterFeatures:
		values = opts.Features
	}
	if len(values) > 0 {
		fmt.Fprintf(s.out, "  %s options: %s\n", name, strings.Join(values, ", "))
	}
}

func cmdReset(_ context.Context, s *Shell, _ string) bool {
	if !s.requireCollection() {
		return false
	}
	s.query = s.query.ResetFilters()
	s.printListing()
	return false
}

func cmdBack(_ context.Context, s *Shell, _ string) bool {
	s.query = s.query.Back()
	s.browsing = false
	s.printCollections()
	return false
}

func cmdView(ctx context.Context, s *Shell, arg string) bool {
	p, ok := s.product(arg)
	if !ok {
		return false
	}
	qv, err := s.ctrl.QuickView(ctx, p)
	if err != nil {
		s.reportError(ctx, err)
		return false
	}
	s.printQuickView(qv)
	return false
}

func cmdAdd(ctx context.Context, s *Shell, arg string) bool {
	p, ok := s.product(arg)
	if !ok {
		return false
	}
	if err := s.ctrl.AddToCart(ctx, p); err != nil {
		s.reportError(ctx, err)
	}
	return false
}

func cmdRemove(ctx context.Context, s *Shell, arg string) bool {
	s.ctrl.RemoveFromCart(ctx, arg)
	return false
}

func cmdInc(ctx context.Context, s *Shell, arg string) bool {
	s.ctrl.IncreaseQuantity(ctx, arg)
	return false
}

func cmdDec(ctx context.Context, s *Shell, arg string) bool {
	s.ctrl.DecreaseQuantity(ctx, arg)
	return false
}

func cmdWish(ctx context.Context, s *Shell, arg string) bool {
	p, ok := s.product(arg)
	if !ok {
		return false
	}
	if _, err := s.ctrl.AddToWishlist(ctx, p); err != nil {
		s.reportError(ctx, err)
	}
	return false
}

func cmdUnwish(ctx context.Context, s *Shell, arg string) bool {
	s.ctrl.RemoveFromWishlist(ctx, arg)
	return false
}

func cmdMove(ctx context.Context, s *Shell, arg string) bool {
	if err := s.ctrl.MoveToCart(ctx, arg); err != nil {
		s.reportError(ctx, err)
	}
	return false
}

func cmdClearCart(_ context.Context, s *Shell, _ string) bool {
	if !s.ctrl.ClearCart() {
		fmt.Fprintln(s.out, cartEmptyMsg)
	}
	return false
}

func cmdClearWishlist(_ context.Context, s *Shell, _ string) bool {
	if !s.ctrl.ClearWishlist() {
		fmt.Fprintln(s.out, wishlistEmptyMsg)
	}
	return false
}

func cmdConfirm(ctx context.Context, s *Shell, _ string) bool {
	if !s.ctrl.Confirm(ctx) {
		fmt.Fprintln(s.out, nothingPending)
	}
	return false
}

func cmdCancel(ctx context.Context, s *Shell, _ string) bool {
	if !s.ctrl.Cancel(ctx) {
		fmt.Fprintln(s.out, nothingPending)
	}
	return false
}

func cmdAsk(ctx context.Context, s *Shell, arg string) bool {
	if s.asker == nil {
		fmt.Fprintln(s.out, "The assistant is not configured.")
		return false
	}
	reply, err := s.asker.Ask(ctx, arg)
	if err != nil {
		s.reportError(ctx, err)
		return false
	}
	fmt.Fprintf(s.out, "Fusion: %s\n", reply.Message)
	return false
}
