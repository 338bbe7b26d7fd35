// Command storefront is the terminal client for the shoe store platform:
// browse the catalog, keep a cart, check out, pay through the gateway
// widget, track orders and talk to the shopping assistant. Sellers and
// administrators get their surfaces behind the same binary.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	adminapp "github.com/shoestore/storefront/internal/application/admin"
	cartapp "github.com/shoestore/storefront/internal/application/cart"
	catalogapp "github.com/shoestore/storefront/internal/application/catalog"
	chatapp "github.com/shoestore/storefront/internal/application/chat"
	identityapp "github.com/shoestore/storefront/internal/application/identity"
	orderapp "github.com/shoestore/storefront/internal/application/order"
	domchat "github.com/shoestore/storefront/internal/domain/chat"
	domidentity "github.com/shoestore/storefront/internal/domain/identity"
	domorder "github.com/shoestore/storefront/internal/domain/order"
	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/domain/shop"
	"github.com/shoestore/storefront/internal/infrastructure/api"
	"github.com/shoestore/storefront/internal/infrastructure/config"
	"github.com/shoestore/storefront/internal/infrastructure/logger"
	"github.com/shoestore/storefront/internal/infrastructure/payment"
	"github.com/shoestore/storefront/internal/infrastructure/session"
)

const usage = `storefront - shoe store terminal client

Usage:
  storefront <command> [arguments]

Account:
  login -email E -password P     sign in
  register -name N -email E -password P
  logout                         sign out
  whoami                         show the active account
  apply-seller -shop NAME [-reason R]

Shopping:
  shoes [-brand B] [-color C] [-size S] [-search Q] [-min P] [-max P]
  shoe ID                        show one product
  cart                           show the cart
  cart-add ID [QTY]              add a product
  cart-set ID QTY                set a line quantity (0 removes)
  cart-remove [-y] ID            drop a line
  cart-clear [-y]                empty the cart
  checkout [-shipping standard|express]
  orders                         list your orders
  order ID                       show one order
  pay ID [-currency CODE]        pay an order through the gateway
  cancel [-y] ID                 cancel an unpaid order
  currencies                     list display currencies
  chat                           talk to the shopping assistant

Selling:
  listings                       your products
  sell-add -name N -price P -stock S [-brand B] [-size Z] [-color C]
  sell-update ID [flags as sell-add]
  sell-remove ID
  sell-status ORDER STATUS       set an order's fulfillment status
  sell-seed [-count N]           create demo listings

Administration:
  admin-users                    list accounts
  admin-role USER ROLE           change an account role
  admin-remove USER              delete an account
  admin-requests                 pending seller applications
  admin-approve REQUEST
  admin-reject REQUEST [-reason R]
  admin-rates CODE=RATE [...]    update exchange rates
`

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	session *session.Store
	client  *api.Client

	cart     *cartapp.Synchronizer
	orders   *orderapp.Service
	identity *identityapp.Service
	catalog  *catalogapp.Service
	admin    *adminapp.Service
}

// toastNotifier prints background sync failures straight to the terminal.
type toastNotifier struct{}

func (toastNotifier) CartSyncFailed(err error) {
	fmt.Fprintf(os.Stderr, "! cart not saved to the server: %v\n", err)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Print(usage)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync(log) }()

	sess := session.NewStore(cfg.Session.TokenFile)
	if err := sess.Hydrate(); err != nil {
		log.Warn("session not restored", zap.Error(err))
	}

	client, err := api.NewClient(cfg.API, sess)
	if err != nil {
		return err
	}

	a := &app{cfg: cfg, logger: log, session: sess, client: client}
	a.cart = cartapp.NewSynchronizer(client, sess, toastNotifier{}, log, cfg.API.Timeout)
	widget := payment.NewWidget(cfg.Payment, log)
	a.orders = orderapp.NewService(client, a.cart, sess, widget, log)
	a.identity = identityapp.NewService(client, sess, a.cart, log)
	a.catalog = catalogapp.NewService(client, sess, log)
	a.admin = adminapp.NewService(client, sess, log)
	// Queued cart syncs finish before the process exits.
	defer a.cart.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if sess.Authenticated() {
		if initErr := a.cart.Init(ctx); initErr != nil {
			log.Warn("cart not loaded", zap.Error(initErr))
		}
	}

	return a.dispatch(ctx, args[0], args[1:])
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		return a.identity.Logout()
	case "whoami":
		return a.cmdWhoami(ctx)
	case "apply-seller":
		return a.cmdApplySeller(ctx, args)
	case "shoes":
		return a.cmdShoes(ctx, args)
	case "shoe":
		return a.cmdShoe(ctx, args)
	case "cart":
		return a.cmdCartShow(ctx)
	case "cart-add":
		return a.cmdCartAdd(ctx, args)
	case "cart-set":
		return a.cmdCartSet(args)
	case "cart-remove":
		return a.cmdCartRemove(args)
	case "cart-clear":
		return a.cmdCartClear(args)
	case "checkout":
		return a.cmdCheckout(ctx, args)
	case "orders":
		return a.cmdOrders(ctx)
	case "order":
		return a.cmdOrder(ctx, args)
	case "pay":
		return a.cmdPay(ctx, args)
	case "cancel":
		return a.cmdCancel(ctx, args)
	case "currencies":
		return a.cmdCurrencies(ctx)
	case "chat":
		return a.cmdChat(ctx)
	case "listings":
		return a.cmdListings(ctx)
	case "sell-add":
		return a.cmdSellAdd(ctx, args)
	case "sell-update":
		return a.cmdSellUpdate(ctx, args)
	case "sell-remove":
		return a.cmdSellRemove(ctx, args)
	case "sell-status":
		return a.cmdSellStatus(ctx, args)
	case "sell-seed":
		return a.cmdSellSeed(ctx, args)
	case "admin-users":
		return a.cmdAdminUsers(ctx)
	case "admin-role":
		return a.cmdAdminRole(ctx, args)
	case "admin-remove":
		return a.cmdAdminRemove(ctx, args)
	case "admin-requests":
		return a.cmdAdminRequests(ctx)
	case "admin-approve":
		return a.cmdAdminApprove(ctx, args)
	case "admin-reject":
		return a.cmdAdminReject(ctx, args)
	case "admin-rates":
		return a.cmdAdminRates(ctx, args)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := a.identity.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", u.Name, u.Role)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := a.identity.Register(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("welcome, %s\n", u.Name)
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	u, err := a.identity.Current(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s\n", u.Name, u.Email, u.Role)
	if u.SellerStatus != domidentity.SellerStatusNone {
		fmt.Printf("seller application: %s\n", u.SellerStatus)
	}
	return nil
}

func (a *app) cmdApplySeller(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apply-seller", flag.ContinueOnError)
	shopName := fs.String("shop", "", "shop name")
	reason := fs.String("reason", "", "why you want to sell")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := a.identity.RequestSeller(ctx, *shopName, *reason)
	if err != nil {
		return err
	}
	fmt.Printf("application #%d filed, status: %s\n", req.ID, req.Status)
	return nil
}

func (a *app) cmdShoes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shoes", flag.ContinueOnError)
	brand := fs.String("brand", "", "filter by brand")
	color := fs.String("color", "", "filter by color")
	size := fs.String("size", "", "filter by size")
	search := fs.String("search", "", "free-text search")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := shop.Filter{Brand: *brand, Color: *color, Size: *size, Search: *search}
	var err error
	if *minPrice != "" {
		if filter.MinPrice, err = decimal.NewFromString(*minPrice); err != nil {
			return fmt.Errorf("bad -min: %w", err)
		}
	}
	if *maxPrice != "" {
		if filter.MaxPrice, err = decimal.NewFromString(*maxPrice); err != nil {
			return fmt.Errorf("bad -max: %w", err)
		}
	}

	shoes, err := a.catalog.Browse(ctx, filter)
	if err != nil {
		return err
	}
	if len(shoes) == 0 {
		fmt.Println("no shoes match")
		return nil
	}
	for _, s := range shoes {
		price, code, convErr := a.displayPrice(s.Price)
		if convErr != nil {
			return convErr
		}
		stock := strconv.Itoa(s.Stock)
		if !s.InStock() {
			stock = "out of stock"
		}
		fmt.Printf("#%-5d %-28s %-12s %10s %s  (%s)\n", s.ID, s.Name, s.Brand, price, code, stock)
	}
	return nil
}

func (a *app) cmdShoe(ctx context.Context, args []string) error {
	id, err := argID(args, "shoe ID")
	if err != nil {
		return err
	}
	s, err := a.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	price, code, err := a.displayPrice(s.Price)
	if err != nil {
		return err
	}
	fmt.Printf("#%d %s by %s\n", s.ID, s.Name, s.Brand)
	fmt.Printf("price: %s %s  size: %s  color: %s  stock: %d\n", price, code, s.Size, s.Color, s.Stock)
	if s.Description != "" {
		fmt.Println(s.Description)
	}
	return nil
}

func (a *app) cmdCartShow(ctx context.Context) error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("your cart is empty")
		return nil
	}
	for _, it := range items {
		amount, code, err := a.displayPrice(it.Amount())
		if err != nil {
			return err
		}
		fmt.Printf("#%-5d %-28s x%-3d %10s %s\n", it.Shoe.ID, it.Shoe.Name, it.Quantity, amount, code)
	}
	total, code, err := a.displayPrice(a.cart.Total())
	if err != nil {
		return err
	}
	fmt.Printf("%d item(s), total %s %s\n", a.cart.ItemCount(), total, code)
	return nil
}

func (a *app) cmdCartAdd(ctx context.Context, args []string) error {
	id, err := argID(args, "shoe ID")
	if err != nil {
		return err
	}
	qty := 1
	if len(args) > 1 {
		if qty, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("bad quantity %q", args[1])
		}
	}
	s, err := a.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	// Final stock arbitration is the server's at order time; this only stops
	// the obvious over-add.
	if have := a.cart.QuantityOf(s.ID); have+qty > s.Stock {
		return fmt.Errorf("%w: only %d of %s in stock and %d already in the cart",
			shared.ErrStockConflict, s.Stock, s.Name, have)
	}
	if err := a.cart.Add(*s, qty); err != nil {
		return err
	}
	fmt.Printf("added %s x%d\n", s.Name, qty)
	return nil
}

func (a *app) cmdCartSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: cart-set ID QTY")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad shoe ID %q", args[0])
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad quantity %q", args[1])
	}
	return a.cart.UpdateQuantity(id, qty)
}

func (a *app) cmdCartRemove(args []string) error {
	fs := flag.NewFlagSet("cart-remove", flag.ContinueOnError)
	yes := fs.Bool("y", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := argID(fs.Args(), "shoe ID")
	if err != nil {
		return err
	}
	if !confirm(*yes, fmt.Sprintf("remove shoe #%d from the cart?", id)) {
		return nil
	}
	return a.cart.Remove(id)
}

func (a *app) cmdCartClear(args []string) error {
	fs := flag.NewFlagSet("cart-clear", flag.ContinueOnError)
	yes := fs.Bool("y", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !confirm(*yes, "empty the whole cart?") {
		return nil
	}
	return a.cart.Clear()
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	shipping := fs.String("shipping", orderapp.ShippingStandard, "standard or express")
	if err := fs.Parse(args); err != nil {
		return err
	}
	o, err := a.orders.Checkout(ctx, *shipping)
	if err != nil {
		return err
	}
	total, code, err := a.displayPrice(o.Total)
	if err != nil {
		return err
	}
	fmt.Printf("order #%d created, total %s %s, status %s\n", o.ID, total, code, o.Status)
	fmt.Printf("run `storefront pay %d` to pay\n", o.ID)
	return nil
}

func (a *app) cmdOrders(ctx context.Context) error {
	orders, err := a.orders.Orders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("no orders yet")
		return nil
	}
	for _, o := range orders {
		fmt.Printf("#%-5d %-20s total %10s  %s\n", o.ID, o.Status, o.Total, o.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) cmdOrder(ctx context.Context, args []string) error {
	id, err := argID(args, "order ID")
	if err != nil {
		return err
	}
	o, err := a.orders.Refresh(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("order #%d  status %s\n", o.ID, o.Status)
	for _, it := range o.Items {
		fmt.Printf("  shoe #%-5d x%-3d @ %s\n", it.ShoeID, it.Quantity, it.UnitPrice)
	}
	if !o.ShippingFee.IsZero() {
		fmt.Printf("  shipping (%s): %s\n", o.ShippingMethod, o.ShippingFee)
	}
	fmt.Printf("  total: %s\n", o.Total)

	if o.Status.CanPay() {
		ps, psErr := a.orders.PaymentStatus(ctx, id)
		if psErr == nil && ps != nil && ps.PaymentMethod != "" {
			fmt.Printf("  payment: %s via %s\n", ps.Status, ps.PaymentMethod)
		}
	}
	return nil
}

func (a *app) cmdPay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	code := fs.String("currency", "", "pay in this display currency")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := argID(fs.Args(), "order ID")
	if err != nil {
		return err
	}

	if *code != "" {
		if err := a.orders.LoadRates(ctx); err != nil {
			return err
		}
		if err := a.orders.SelectCurrency(strings.ToUpper(*code)); err != nil {
			return err
		}
	}

	o, err := a.orders.Pay(ctx, id)
	if o != nil {
		fmt.Printf("order #%d is now %s\n", o.ID, o.Status)
	}
	return err
}

func (a *app) cmdCancel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	yes := fs.Bool("y", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := argID(fs.Args(), "order ID")
	if err != nil {
		return err
	}
	if !confirm(*yes, fmt.Sprintf("cancel order #%d?", id)) {
		return nil
	}
	if err := a.orders.Cancel(ctx, id); err != nil {
		return err
	}
	fmt.Printf("order #%d cancelled\n", id)
	return nil
}

func (a *app) cmdCurrencies(ctx context.Context) error {
	if err := a.orders.LoadRates(ctx); err != nil {
		return err
	}
	for _, r := range a.orders.Rates() {
		fmt.Printf("%-5s %-24s %s\n", r.Code, r.Name, r.Rate)
	}
	return nil
}

func (a *app) cmdChat(ctx context.Context) error {
	if !a.session.Authenticated() {
		return fmt.Errorf("sign in to use the shopping assistant")
	}

	client := chatapp.NewClient(a.cfg.Chat, a.session, chatapp.Handlers{
		OnMessage: func(m domchat.Message) {
			if m.IsFromUser {
				return
			}
			fmt.Printf("\rassistant: %s\n> ", m.Content)
			if m.HasRecommendations() {
				fmt.Printf("\r(see: storefront shoe %v)\n> ", m.Metadata.Products)
			}
		},
		OnTyping: func(active bool) {
			if active {
				fmt.Print("\rassistant is typing...\n> ")
			}
		},
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "\r! %v\n> ", err)
		},
		OnStatus: func(s chatapp.Status) {
			if s != chatapp.StatusConnected {
				fmt.Fprintf(os.Stderr, "\r[%s]\n", s)
			}
		},
	}, a.logger)

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	fmt.Println("connected; type a message, /clear to reset, or /quit to leave")
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" {
			return nil
		}
		if line == "/clear" {
			client.ClearMessages()
			fmt.Print("> ")
			continue
		}
		if line != "" {
			if _, err := client.Send(line); err != nil {
				fmt.Fprintf(os.Stderr, "! %v\n", err)
			}
		}
		fmt.Print("> ")
	}
	return scanner.Err()
}

func (a *app) cmdListings(ctx context.Context) error {
	mine, err := a.catalog.MyListings(ctx)
	if err != nil {
		return err
	}
	if len(mine) == 0 {
		fmt.Println("you have no listings")
		return nil
	}
	for _, s := range mine {
		fmt.Printf("#%-5d %-28s %10s  stock %d\n", s.ID, s.Name, s.Price, s.Stock)
	}
	return nil
}

func sellForm(fs *flag.FlagSet) (*string, *string, *string, *int, *string, *string, *string) {
	name := fs.String("name", "", "product name")
	brand := fs.String("brand", "", "brand")
	price := fs.String("price", "", "price in base currency")
	stock := fs.Int("stock", 0, "units in stock")
	size := fs.String("size", "", "size")
	color := fs.String("color", "", "color")
	desc := fs.String("desc", "", "description")
	return name, brand, price, stock, size, color, desc
}

func parseSellForm(name, brand, price *string, stock *int, size, color, desc *string) (api.ShoeForm, error) {
	form := api.ShoeForm{
		Name: *name, Brand: *brand, Stock: *stock,
		Size: *size, Color: *color, Description: *desc,
	}
	if *price != "" {
		p, err := decimal.NewFromString(*price)
		if err != nil {
			return form, fmt.Errorf("bad -price: %w", err)
		}
		form.Price = p
	}
	return form, nil
}

func (a *app) cmdSellAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sell-add", flag.ContinueOnError)
	name, brand, price, stock, size, color, desc := sellForm(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	form, err := parseSellForm(name, brand, price, stock, size, color, desc)
	if err != nil {
		return err
	}
	created, err := a.catalog.Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("listed #%d %s\n", created.ID, created.Name)
	return nil
}

func (a *app) cmdSellUpdate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: sell-update ID [flags]")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad shoe ID %q", args[0])
	}
	fs := flag.NewFlagSet("sell-update", flag.ContinueOnError)
	name, brand, price, stock, size, color, desc := sellForm(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	form, err := parseSellForm(name, brand, price, stock, size, color, desc)
	if err != nil {
		return err
	}
	updated, err := a.catalog.Update(ctx, id, form)
	if err != nil {
		return err
	}
	fmt.Printf("updated #%d %s\n", updated.ID, updated.Name)
	return nil
}

func (a *app) cmdSellRemove(ctx context.Context, args []string) error {
	id, err := argID(args, "shoe ID")
	if err != nil {
		return err
	}
	return a.catalog.Delete(ctx, id)
}

func (a *app) cmdSellStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: sell-status ORDER STATUS")
	}
	id, err := argID(args[:1], "order ID")
	if err != nil {
		return err
	}
	status := domorder.Status(strings.ToUpper(args[1]))
	updated, err := a.catalog.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Printf("order #%d is now %s\n", updated.ID, updated.Status)
	return nil
}

func (a *app) cmdSellSeed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sell-seed", flag.ContinueOnError)
	count := fs.Int("count", 10, "number of demo listings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	created, err := a.catalog.SeedDemo(ctx, *count)
	if len(created) > 0 {
		fmt.Printf("created %d demo listing(s)\n", len(created))
	}
	return err
}

func (a *app) cmdAdminUsers(ctx context.Context) error {
	users, err := a.admin.Users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Printf("#%-5d %-24s %-28s %s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return nil
}

func (a *app) cmdAdminRole(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: admin-role USER ROLE")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad user ID %q", args[0])
	}
	u, err := a.admin.SetRole(ctx, id, domidentity.Role(args[1]))
	if err != nil {
		return err
	}
	fmt.Printf("#%d %s is now %s\n", u.ID, u.Name, u.Role)
	return nil
}

func (a *app) cmdAdminRemove(ctx context.Context, args []string) error {
	id, err := argID(args, "user ID")
	if err != nil {
		return err
	}
	return a.admin.RemoveUser(ctx, id)
}

func (a *app) cmdAdminRequests(ctx context.Context) error {
	reqs, err := a.admin.SellerRequests(ctx)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Println("no pending applications")
		return nil
	}
	for _, r := range reqs {
		fmt.Printf("#%-5d %-24s shop %q  %s\n", r.ID, r.UserName, r.ShopName, r.Status)
	}
	return nil
}

func (a *app) cmdAdminApprove(ctx context.Context, args []string) error {
	id, err := argID(args, "request ID")
	if err != nil {
		return err
	}
	return a.admin.ApproveSeller(ctx, id)
}

func (a *app) cmdAdminReject(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin-reject", flag.ContinueOnError)
	reason := fs.String("reason", "", "reason shown to the applicant")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := argID(fs.Args(), "request ID")
	if err != nil {
		return err
	}
	return a.admin.RejectSeller(ctx, id, *reason)
}

func (a *app) cmdAdminRates(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: admin-rates CODE=RATE [...]")
	}
	rates := make(map[string]decimal.Decimal, len(args))
	for _, arg := range args {
		code, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("bad rate %q, want CODE=RATE", arg)
		}
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("bad rate for %s: %w", code, err)
		}
		rates[strings.ToUpper(code)] = rate
	}
	if err := a.admin.SetRates(ctx, rates); err != nil {
		return err
	}
	fmt.Printf("updated %d rate(s)\n", len(rates))
	return nil
}

// displayPrice renders a base-currency amount in the selected display
// currency.
func (a *app) displayPrice(amount decimal.Decimal) (string, string, error) {
	converted, code, err := a.orders.DisplayAmount(amount)
	if err != nil {
		return "", "", err
	}
	return converted.String(), code, nil
}

// confirm asks on the terminal unless -y was passed.
func confirm(skip bool, question string) bool {
	if skip {
		return true
	}
	fmt.Printf("%s [y/N] ", question)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func argID(args []string, what string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s is required", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", what, args[0])
	}
	return id, nil
}
