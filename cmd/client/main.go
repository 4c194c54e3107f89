package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PaulBabatuyi/TrustSite/internal/media"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/PaulBabatuyi/TrustSite/internal/server"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const defaultAddr = "localhost:50051"

const usage = `usage: trustsite-admin [-addr host:port] [-token T | -api-key K] <command> [flags]

commands:
  login           -user -pass
  stats
  list-members
  create-member   -name -address -mobile [-gender -join-date -photo FILE]
  update-member   -id [-name -address -mobile -aadhar -occupation -gender -join-date -photo FILE | -clear-photo]
  delete-member   -id
  list-events     [-category past|future]
  create-event    -title -description -date -venue [-category -beneficiaries N -images A,B]
  add-images      -id -images A,B
  delete-event    -id
  list-carousel
  create-slide    -title -description [-link URL -image FILE]
  update-slide    -id [-title -description -link -image FILE | -clear-image]
  delete-slide    -id
`

// AdminCLI wraps the admin client with the credentials given on the command line.
type AdminCLI struct {
	client *server.AdminClient
	conn   *grpc.ClientConn
	token  string
	apiKey string
}

func NewAdminCLI(addr, token, apiKey string) (*AdminCLI, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &AdminCLI{client: server.NewAdminClient(conn), conn: conn, token: token, apiKey: apiKey}, nil
}

func (c *AdminCLI) Close() error {
	return c.conn.Close()
}

func (c *AdminCLI) authed(ctx context.Context) context.Context {
	if c.token != "" {
		ctx = server.WithToken(ctx, c.token)
	}
	if c.apiKey != "" {
		ctx = server.WithAPIKey(ctx, c.apiKey)
	}
	return ctx
}

// readAttachment loads a local file for upload.
func readAttachment(path string) (*models.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &models.Attachment{
		Filename:    filepath.Base(path),
		ContentType: detectContentType(path, data),
		Data:        data,
	}, nil
}

func readAttachments(list string) ([]models.Attachment, error) {
	var out []models.Attachment
	for _, path := range strings.Split(list, ",") {
		if path = strings.TrimSpace(path); path == "" {
			continue
		}
		att, err := readAttachment(path)
		if err != nil {
			return nil, err
		}
		out = append(out, *att)
	}
	return out, nil
}

// detectContentType prefers the extension and falls back to sniffing.
func detectContentType(path string, data []byte) string {
	var declared string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		declared = "image/jpeg"
	case ".png":
		declared = "image/png"
	case ".gif":
		declared = "image/gif"
	case ".webp":
		declared = "image/webp"
	}
	return media.ResolveContentType(data, declared)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// stringPatch returns the flag's value when it was given and nil otherwise,
// so an omitted flag leaves the stored field alone.
func stringPatch(fs *flag.FlagSet, set map[string]bool, name string) *string {
	if !set[name] {
		return nil
	}
	v := fs.Lookup(name).Value.String()
	return &v
}

func boolFlag(fs *flag.FlagSet, name string) bool {
	v, _ := fs.Lookup(name).Value.(flag.Getter).Get().(bool)
	return v
}

// memberUpdateFlags defines the update-member flags and returns the photo
// file flag.
func memberUpdateFlags(fs *flag.FlagSet) *string {
	fs.String("name", "", "member name")
	fs.String("address", "", "postal address")
	fs.String("mobile", "", "mobile number")
	fs.String("aadhar", "", "aadhar number")
	fs.String("occupation", "", "occupation")
	fs.String("gender", "", "Male, Female or Other")
	fs.String("join-date", "", "join date YYYY-MM-DD")
	fs.Bool("clear-photo", false, "reset the photo to the placeholder")
	return fs.String("photo", "", "new photo file")
}

func slideUpdateFlags(fs *flag.FlagSet) *string {
	fs.String("title", "", "slide title")
	fs.String("description", "", "slide text")
	fs.String("link", "", "target url")
	fs.Bool("clear-image", false, "reset the image to the placeholder")
	return fs.String("image", "", "new image file")
}

// memberPatchFromFlags builds a patch from an update-member flag set that
// has already been parsed.
func memberPatchFromFlags(fs *flag.FlagSet) models.MemberPatch {
	set := setFlags(fs)
	p := models.MemberPatch{
		Name:         stringPatch(fs, set, "name"),
		Address:      stringPatch(fs, set, "address"),
		AadharNumber: stringPatch(fs, set, "aadhar"),
		Occupation:   stringPatch(fs, set, "occupation"),
		MobileNo:     stringPatch(fs, set, "mobile"),
		JoinDate:     stringPatch(fs, set, "join-date"),
		ClearPhoto:   boolFlag(fs, "clear-photo"),
	}
	if g := stringPatch(fs, set, "gender"); g != nil {
		gender := models.Gender(*g)
		p.Gender = &gender
	}
	return p
}

func carouselPatchFromFlags(fs *flag.FlagSet) models.CarouselPatch {
	set := setFlags(fs)
	return models.CarouselPatch{
		Title:       stringPatch(fs, set, "title"),
		Description: stringPatch(fs, set, "description"),
		Link:        stringPatch(fs, set, "link"),
		ClearImage:  boolFlag(fs, "clear-image"),
	}
}

func (c *AdminCLI) run(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	id := fs.String("id", "", "record id")

	switch cmd {
	case "login":
		user := fs.String("user", "admin", "admin username")
		pass := fs.String("pass", "", "admin password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		resp, err := c.client.Login(ctx, &server.LoginRequest{Username: *user, Password: *pass})
		if err != nil {
			return err
		}
		fmt.Println(resp.Token)
		fmt.Fprintf(os.Stderr, "✓ token expires %s\n", resp.ExpiresAt.Format(time.RFC3339))
		return nil

	case "stats":
		stats, err := c.client.GetStats(c.authed(ctx))
		if err != nil {
			return err
		}
		return printJSON(stats)

	case "list-members":
		resp, err := c.client.ListMembers(c.authed(ctx), &server.ListRequest{})
		if err != nil {
			return err
		}
		return printJSON(resp.Members)

	case "create-member":
		var m models.Member
		fs.StringVar(&m.Name, "name", "", "member name")
		fs.StringVar(&m.Address, "address", "", "postal address")
		fs.StringVar(&m.MobileNo, "mobile", "", "mobile number")
		fs.StringVar(&m.JoinDate, "join-date", "", "join date YYYY-MM-DD")
		gender := fs.String("gender", "", "Male, Female or Other")
		photo := fs.String("photo", "", "photo file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		m.Gender = models.Gender(*gender)
		req := &server.CreateMemberRequest{Member: m}
		if *photo != "" {
			att, err := readAttachment(*photo)
			if err != nil {
				return err
			}
			req.Photo = att
		}
		resp, err := c.client.CreateMember(c.authed(ctx), req)
		if err != nil {
			return err
		}
		return printJSON(resp.Member)

	case "update-member":
		photo := memberUpdateFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		req := &server.UpdateMemberRequest{ID: *id, Patch: memberPatchFromFlags(fs)}
		if *photo != "" {
			att, err := readAttachment(*photo)
			if err != nil {
				return err
			}
			req.Photo = att
		}
		resp, err := c.client.UpdateMember(c.authed(ctx), req)
		if err != nil {
			return err
		}
		printWarnings(resp.Warnings)
		return printJSON(resp.Member)

	case "delete-member", "delete-event", "delete-slide":
		if err := fs.Parse(args); err != nil {
			return err
		}
		req := &server.IDRequest{ID: *id}
		var (
			resp *server.DeleteResponse
			err  error
		)
		switch cmd {
		case "delete-member":
			resp, err = c.client.DeleteMember(c.authed(ctx), req)
		case "delete-event":
			resp, err = c.client.DeleteEvent(c.authed(ctx), req)
		default:
			resp, err = c.client.DeleteCarouselItem(c.authed(ctx), req)
		}
		if err != nil {
			return err
		}
		printWarnings(resp.Warnings)
		fmt.Printf("✓ deleted %s\n", *id)
		return nil

	case "list-events":
		category := fs.String("category", "", "past or future")
		if err := fs.Parse(args); err != nil {
			return err
		}
		resp, err := c.client.ListEvents(c.authed(ctx), &server.ListRequest{Category: models.Category(*category)})
		if err != nil {
			return err
		}
		return printJSON(resp.Events)

	case "create-event":
		var ev models.Event
		fs.StringVar(&ev.Title, "title", "", "event title")
		fs.StringVar(&ev.Description, "description", "", "event description")
		fs.StringVar(&ev.Date, "date", "", "event date")
		fs.StringVar(&ev.Venue, "venue", "", "event venue")
		category := fs.String("category", "", "past or future")
		beneficiaries := fs.Int("beneficiaries", -1, "people helped")
		images := fs.String("images", "", "comma separated image files")
		if err := fs.Parse(args); err != nil {
			return err
		}
		ev.Category = models.Category(*category)
		if *beneficiaries >= 0 {
			ev.Beneficiaries = beneficiaries
		}
		files, err := readAttachments(*images)
		if err != nil {
			return err
		}
		resp, err := c.client.CreateEvent(c.authed(ctx), &server.CreateEventRequest{Event: ev, Images: files})
		if err != nil {
			return err
		}
		return printJSON(resp.Event)

	case "add-images":
		images := fs.String("images", "", "comma separated image files")
		if err := fs.Parse(args); err != nil {
			return err
		}
		files, err := readAttachments(*images)
		if err != nil {
			return err
		}
		resp, err := c.client.UpdateEvent(c.authed(ctx), &server.UpdateEventRequest{ID: *id, Images: files})
		if err != nil {
			return err
		}
		printWarnings(resp.Warnings)
		return printJSON(resp.Event)

	case "list-carousel":
		resp, err := c.client.ListCarouselItems(c.authed(ctx), &server.ListRequest{})
		if err != nil {
			return err
		}
		return printJSON(resp.Items)

	case "create-slide":
		var s models.CarouselSlide
		fs.StringVar(&s.Title, "title", "", "slide title")
		fs.StringVar(&s.Description, "description", "", "slide text")
		fs.StringVar(&s.Link, "link", "", "target url")
		image := fs.String("image", "", "image file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		req := &server.CreateCarouselItemRequest{Item: s}
		if *image != "" {
			att, err := readAttachment(*image)
			if err != nil {
				return err
			}
			req.Image = att
		}
		resp, err := c.client.CreateCarouselItem(c.authed(ctx), req)
		if err != nil {
			return err
		}
		return printJSON(resp.Item)

	case "update-slide":
		image := slideUpdateFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		req := &server.UpdateCarouselItemRequest{ID: *id, Patch: carouselPatchFromFlags(fs)}
		if *image != "" {
			att, err := readAttachment(*image)
			if err != nil {
				return err
			}
			req.Image = att
		}
		resp, err := c.client.UpdateCarouselItem(c.authed(ctx), req)
		if err != nil {
			return err
		}
		printWarnings(resp.Warnings)
		return printJSON(resp.Item)
	}
	return errors.New("unknown command " + cmd)
}

func main() {
	addr := flag.String("addr", defaultAddr, "admin server address")
	token := flag.String("token", os.Getenv("TRUSTSITE_TOKEN"), "bearer token from login")
	apiKey := flag.String("api-key", os.Getenv("TRUSTSITE_API_KEY"), "admin API key")
	timeout := flag.Duration("timeout", time.Minute, "request timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cli, err := NewAdminCLI(*addr, *token, *apiKey)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := cli.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		cancel()
		cli.Close()
		log.Fatalf("%s failed: %v", flag.Arg(0), err)
	}
}
