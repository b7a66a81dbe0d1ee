// Command curio is an ops/admin CLI over the curio library: it manages users,
// the follow graph, collections, and items directly against PostgreSQL, and
// evaluates every read through the same visibility policies the services use.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/and161185/curio/internal/config"
	"github.com/and161185/curio/internal/convert"
	"github.com/and161185/curio/internal/metrics"
	"github.com/and161185/curio/internal/migrate"
	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/repository"
	"github.com/and161185/curio/internal/repository/postgres"
	"github.com/and161185/curio/internal/service"
	"github.com/and161185/curio/internal/visibility"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `curio %s (%s)

Usage: curio [-config path] <command> [flags]

Commands:
  migrate                               apply schema migrations
  user-add        -email -name          create a user
  follow          -actor -target       create a follow edge
  unfollow        -actor -target       remove a follow edge
  following       -user                 list users the user follows
  followers       -user                 list the user's followers
  collection-add  -owner -name [-desc] [-privacy]
  collection-set  -actor -id -name [-desc] [-privacy]
  collection-del  -actor -id
  collection      [-viewer] -id         retrieve one collection
  collections     [-viewer] [-owner]    list visible collections
  feed            -viewer               collection feed
  item-add        -actor -collection -name [...]
  item            [-viewer] -id         retrieve one item (redacted)
  items           [-viewer] [-collection] [-q]
`, version, buildDate)
	os.Exit(2)
}

func main() {
	cfgPath := flag.String("config", "", "path to YAML config")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Log.Mode == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	metrics.StartServer(cfg.Metrics.Addr)

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if cmd == "migrate" {
		if err := migrate.Up(ctx, cfg.Storage.DSN); err != nil {
			fatalf("migrate: %v", err)
		}
		fmt.Println("ok")
		return
	}

	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer pool.Close()

	app := newApp(&postgres.DB{Pool: pool}, logger)
	if err := app.run(ctx, cmd, args); err != nil {
		fatalf("%s: %v", cmd, err)
	}
}

// app wires repositories, policies, and services once per invocation.
type app struct {
	users       repository.UserRepository
	follows     service.FollowService
	collections service.CollectionService
	items       service.ItemService
	feed        service.FeedService
}

func newApp(db *postgres.DB, logger *zap.Logger) *app {
	followRepo := postgres.NewFollowRepo(db)
	collRepo := postgres.NewCollectionRepo(db)
	itemRepo := postgres.NewItemRepo(db)

	collPolicy := visibility.NewCollectionPolicy(followRepo)
	itemPolicy := visibility.NewItemPolicy(followRepo)
	feedPolicy := visibility.NewFeedPolicy(followRepo)

	return &app{
		users:       postgres.NewUserRepo(db),
		follows:     service.NewFollowService(followRepo, logger),
		collections: service.NewCollectionService(collRepo, collPolicy, logger),
		items:       service.NewItemService(itemRepo, collRepo, itemPolicy, collPolicy, logger),
		feed:        service.NewFeedService(collRepo, feedPolicy, logger),
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "user-add":
		return a.userAdd(ctx, args)
	case "follow", "unfollow":
		return a.followCmd(ctx, cmd, args)
	case "following", "followers":
		return a.listUsersCmd(ctx, cmd, args)
	case "collection-add":
		return a.collectionAdd(ctx, args)
	case "collection-set":
		return a.collectionSet(ctx, args)
	case "collection-del":
		return a.collectionDel(ctx, args)
	case "collection":
		return a.collectionGet(ctx, args)
	case "collections":
		return a.collectionList(ctx, args)
	case "feed":
		return a.feedCmd(ctx, args)
	case "item-add":
		return a.itemAdd(ctx, args)
	case "item":
		return a.itemGet(ctx, args)
	case "items":
		return a.itemList(ctx, args)
	default:
		usage()
		return nil
	}
}

func (a *app) userAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-add", flag.ExitOnError)
	email := fs.String("email", "", "email (required)")
	name := fs.String("name", "", "display name")
	_ = fs.Parse(args)
	if *email == "" {
		return fmt.Errorf("missing -email")
	}
	u := &model.User{ID: uuid.Must(uuid.NewV4()), Email: *email, DisplayName: *name}
	if err := a.users.Create(ctx, u); err != nil {
		return err
	}
	return printJSON(map[string]any{"id": u.ID.String(), "email": u.Email})
}

func (a *app) followCmd(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	actor := fs.String("actor", "", "acting user id (required)")
	target := fs.String("target", "", "target user id (required)")
	_ = fs.Parse(args)
	actorID, err := parseID(*actor, "actor")
	if err != nil {
		return err
	}
	targetID, err := parseID(*target, "target")
	if err != nil {
		return err
	}
	if cmd == "follow" {
		created, err := a.follows.Follow(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		status := "already_following"
		if created {
			status = "followed"
		}
		return printJSON(map[string]any{"status": status})
	}
	removed, err := a.follows.Unfollow(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	status := "not_following"
	if removed > 0 {
		status = "unfollowed"
	}
	return printJSON(map[string]any{"status": status})
}

func (a *app) listUsersCmd(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	user := fs.String("user", "", "user id (required)")
	_ = fs.Parse(args)
	userID, err := parseID(*user, "user")
	if err != nil {
		return err
	}
	var ids []uuid.UUID
	if cmd == "following" {
		ids, err = a.follows.Following(ctx, userID)
	} else {
		ids, err = a.follows.Followers(ctx, userID)
	}
	if err != nil {
		return err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return printJSON(out)
}

func (a *app) collectionAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("collection-add", flag.ExitOnError)
	owner := fs.String("owner", "", "owner user id (required)")
	name := fs.String("name", "", "collection name (required)")
	desc := fs.String("desc", "", "description")
	privacy := fs.String("privacy", "public", "public|private|following_only")
	_ = fs.Parse(args)
	ownerID, err := parseID(*owner, "owner")
	if err != nil {
		return err
	}
	tier, err := model.ParsePrivacyTier(*privacy)
	if err != nil {
		return err
	}
	c, err := a.collections.Create(ctx, ownerID, *name, *desc, tier)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"id": c.ID.String()})
}

func (a *app) collectionSet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("collection-set", flag.ExitOnError)
	actor := fs.String("actor", "", "acting user id (required)")
	id := fs.String("id", "", "collection id (required)")
	name := fs.String("name", "", "collection name (required)")
	desc := fs.String("desc", "", "description")
	privacy := fs.String("privacy", "public", "public|private|following_only")
	_ = fs.Parse(args)
	actorID, err := parseID(*actor, "actor")
	if err != nil {
		return err
	}
	collID, err := parseID(*id, "id")
	if err != nil {
		return err
	}
	tier, err := model.ParsePrivacyTier(*privacy)
	if err != nil {
		return err
	}
	return a.collections.Update(ctx, actorID, collID, *name, *desc, tier)
}

func (a *app) collectionDel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("collection-del", flag.ExitOnError)
	actor := fs.String("actor", "", "acting user id (required)")
	id := fs.String("id", "", "collection id (required)")
	_ = fs.Parse(args)
	actorID, err := parseID(*actor, "actor")
	if err != nil {
		return err
	}
	collID, err := parseID(*id, "id")
	if err != nil {
		return err
	}
	return a.collections.Delete(ctx, actorID, collID)
}

func (a *app) collectionGet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("collection", flag.ExitOnError)
	viewer := fs.String("viewer", "", "viewer user id (empty = anonymous)")
	id := fs.String("id", "", "collection id (required)")
	_ = fs.Parse(args)
	v, err := parseViewer(*viewer)
	if err != nil {
		return err
	}
	collID, err := parseID(*id, "id")
	if err != nil {
		return err
	}
	c, err := a.collections.Get(ctx, v, collID)
	if err != nil {
		return err
	}
	return printJSON(convert.CollectionRecord(*c))
}

func (a *app) collectionList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("collections", flag.ExitOnError)
	viewer := fs.String("viewer", "", "viewer user id (empty = anonymous)")
	owner := fs.String("owner", "", "narrow to one owner's profile")
	_ = fs.Parse(args)
	v, err := parseViewer(*viewer)
	if err != nil {
		return err
	}
	var list []model.CollectionWithStats
	if *owner != "" {
		ownerID, err := parseID(*owner, "owner")
		if err != nil {
			return err
		}
		list, err = a.collections.ListProfile(ctx, v, ownerID)
		if err != nil {
			return err
		}
	} else {
		list, err = a.collections.List(ctx, v)
		if err != nil {
			return err
		}
	}
	out := make([]map[string]any, 0, len(list))
	for _, c := range list {
		out = append(out, convert.CollectionRecord(c))
	}
	return printJSON(out)
}

func (a *app) feedCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	viewer := fs.String("viewer", "", "viewer user id (required)")
	_ = fs.Parse(args)
	viewerID, err := parseID(*viewer, "viewer")
	if err != nil {
		return err
	}
	list, err := a.feed.Feed(ctx, model.UserViewer(viewerID))
	if err != nil {
		return err
	}
	out := make([]map[string]any, 0, len(list))
	for _, c := range list {
		out = append(out, convert.CollectionRecord(c))
	}
	return printJSON(out)
}

func (a *app) itemAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("item-add", flag.ExitOnError)
	actor := fs.String("actor", "", "acting user id (required)")
	collection := fs.String("collection", "", "collection id (required)")
	name := fs.String("name", "", "item name (required)")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", "", "category")
	privacy := fs.String("privacy", "public", "public|private|following_only")
	location := fs.String("location", "", "storage location")
	currency := fs.String("currency", "", "currency code")
	price := fs.Float64("price", -1, "purchase price")
	value := fs.Float64("value", -1, "current value")
	purchased := fs.String("purchased", "", "purchase date (YYYY-MM-DD)")
	hidden := fs.String("hidden", "", "comma-separated hidden field paths")
	extra := fs.String("extra", "", "extra fields as JSON object")
	_ = fs.Parse(args)

	actorID, err := parseID(*actor, "actor")
	if err != nil {
		return err
	}
	collID, err := parseID(*collection, "collection")
	if err != nil {
		return err
	}
	tier, err := model.ParsePrivacyTier(*privacy)
	if err != nil {
		return err
	}

	in := service.ItemInput{
		CollectionID: collID,
		Name:         *name,
		Description:  *desc,
		Category:     *category,
		Privacy:      tier,
		Location:     *location,
		Currency:     *currency,
	}
	if *price >= 0 {
		in.PurchasePrice = price
	}
	if *value >= 0 {
		in.CurrentValue = value
	}
	if *purchased != "" {
		d, err := time.Parse("2006-01-02", *purchased)
		if err != nil {
			return fmt.Errorf("bad -purchased: %w", err)
		}
		in.PurchaseDate = &d
	}
	if *hidden != "" {
		for _, p := range strings.Split(*hidden, ",") {
			if p = strings.TrimSpace(p); p != "" {
				in.HiddenFields = append(in.HiddenFields, p)
			}
		}
	}
	if *extra != "" {
		if err := json.Unmarshal([]byte(*extra), &in.Extra); err != nil {
			return fmt.Errorf("bad -extra: %w", err)
		}
	}

	it, err := a.items.Create(ctx, actorID, in)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"id": it.ID.String()})
}

func (a *app) itemGet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("item", flag.ExitOnError)
	viewer := fs.String("viewer", "", "viewer user id (empty = anonymous)")
	id := fs.String("id", "", "item id (required)")
	_ = fs.Parse(args)
	v, err := parseViewer(*viewer)
	if err != nil {
		return err
	}
	itemID, err := parseID(*id, "id")
	if err != nil {
		return err
	}
	rec, err := a.items.Get(ctx, v, itemID)
	if err != nil {
		return err
	}
	return printJSON(rec)
}

func (a *app) itemList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("items", flag.ExitOnError)
	viewer := fs.String("viewer", "", "viewer user id (empty = anonymous)")
	collection := fs.String("collection", "", "narrow to one collection")
	q := fs.String("q", "", "search in name/description")
	_ = fs.Parse(args)
	v, err := parseViewer(*viewer)
	if err != nil {
		return err
	}
	iq := repository.ItemQuery{Search: *q}
	if *collection != "" {
		collID, err := parseID(*collection, "collection")
		if err != nil {
			return err
		}
		iq.CollectionID = &collID
	}
	recs, err := a.items.List(ctx, v, iq)
	if err != nil {
		return err
	}
	return printJSON(recs)
}

// ---- helpers ----

func parseID(s, name string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, fmt.Errorf("missing -%s", name)
	}
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("bad -%s: %w", name, err)
	}
	return id, nil
}

func parseViewer(s string) (model.Viewer, error) {
	if s == "" {
		return model.Anonymous(), nil
	}
	id, err := uuid.FromString(s)
	if err != nil {
		return model.Viewer{}, fmt.Errorf("bad -viewer: %w", err)
	}
	return model.UserViewer(id), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
