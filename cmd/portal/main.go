package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wellness/portal/internal/config"
	"wellness/portal/internal/domain/account"
	"wellness/portal/internal/infrastructure/backend"
	"wellness/portal/internal/usecase/login"
	"wellness/portal/internal/usecase/posts"
	"wellness/portal/internal/usecase/recovery"
	"wellness/portal/internal/usecase/registration"

	"golang.org/x/term"
)

var errCancelled = errors.New("cancelled")

type options struct {
	email       string
	accountType string
	country     string
	province    string
	firstName   string
	lastName    string
	dateOfBirth string
	license     string
	specialties string
	postID      string
}

func main() {
	cmd := flag.String("cmd", "login", "Command: login|forgot-password|provinces|check-password|register|posts|delete-post")
	serverFlag := flag.String("server", "", "Override server base URL (e.g. https://portal.example.com)")
	var opts options
	flag.StringVar(&opts.email, "email", "", "Account email")
	flag.StringVar(&opts.accountType, "type", "client", "Account type for register/provinces: client|therapist")
	flag.StringVar(&opts.country, "country", "", "Country code (US, CA)")
	flag.StringVar(&opts.province, "province", "", "Province or state code")
	flag.StringVar(&opts.firstName, "first-name", "", "First name (register)")
	flag.StringVar(&opts.lastName, "last-name", "", "Last name (register)")
	flag.StringVar(&opts.dateOfBirth, "dob", "", "Date of birth, YYYY-MM-DD (register)")
	flag.StringVar(&opts.license, "license", "", "License number (therapist register)")
	flag.StringVar(&opts.specialties, "specialty", "", "Comma separated specialties (therapist register)")
	flag.StringVar(&opts.postID, "id", "", "Post id (posts: expand, delete-post: target)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *serverFlag != "" {
		if cfg, err = cfg.WithBaseURL(*serverFlag); err != nil {
			log.Fatalf("invalid --server: %v", err)
		}
	}

	client, err := backend.New(cfg)
	if err != nil {
		log.Fatalf("failed to build backend client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli{cfg: cfg, client: client, in: bufio.NewReader(os.Stdin), opts: opts}
	if err := app.run(ctx, *cmd); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

type cli struct {
	cfg    config.Config
	client *backend.Client
	in     *bufio.Reader
	opts   options
}

func (c *cli) run(ctx context.Context, cmd string) error {
	switch cmd {
	case "login":
		return c.login(ctx)
	case "forgot-password":
		return c.forgotPassword(ctx)
	case "provinces":
		return c.provinces(ctx)
	case "check-password":
		return c.checkPassword()
	case "register":
		return c.register(ctx)
	case "posts":
		return c.listPosts(ctx)
	case "delete-post":
		return c.deletePost(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *cli) prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// secret reads without echo when stdin is a terminal.
func (c *cli) secret(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return c.prompt(label)
	}
	fmt.Print(label)
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *cli) emailOrPrompt() (string, error) {
	if c.opts.email != "" {
		return c.opts.email, nil
	}
	return c.prompt("Email: ")
}

func (c *cli) login(ctx context.Context) error {
	email, err := c.emailOrPrompt()
	if err != nil {
		return err
	}
	password, err := c.secret("Password: ")
	if err != nil {
		return err
	}

	verifier := login.NewVerificationController(c.client, c.client, c.cfg.HomePath, c.cfg.RedirectDelay)
	creds := login.NewCredentialController(c.client, c.client, verifier, c.cfg.LoginPath, c.cfg.HomePath)

	step, err := creds.Submit(ctx, account.LoginAttempt{Email: email, Password: password})
	if rerr := creds.Render(os.Stdout); rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}

	switch step {
	case login.StepNavigated:
		fmt.Println("Logged in.")
		return nil
	case login.StepSecondFactor:
		return c.secondFactor(ctx, verifier)
	default:
		return fmt.Errorf("login %s", step)
	}
}

func (c *cli) secondFactor(ctx context.Context, verifier *login.VerificationController) error {
	for {
		raw, err := c.prompt("Verification code (blank to cancel): ")
		if err != nil || raw == "" {
			verifier.Dismiss()
			return errCancelled
		}
		verifier.Input(raw)

		err = verifier.Verify(ctx)
		if rerr := verifier.Render(os.Stdout); rerr != nil {
			return rerr
		}
		if err != nil && !errors.Is(err, account.ErrInvalidCodeLength) {
			return err
		}
		if verifier.State() == login.StateRedirecting {
			if err := verifier.WaitRedirect(ctx); err != nil {
				return err
			}
			fmt.Println("Logged in.")
			return nil
		}
	}
}

func (c *cli) forgotPassword(ctx context.Context) error {
	email, err := c.emailOrPrompt()
	if err != nil {
		return err
	}

	reset := recovery.NewController(c.client, c.cfg.ResetDismissDelay)
	reset.Open()
	reset.SetEmail(email)
	err = reset.Send(ctx)
	if text, _ := reset.Status(); text != "" {
		fmt.Println(text)
	}
	return err
}

func (c *cli) provinces(ctx context.Context) error {
	signup := registration.NewController(c.client, c.opts.accountType)
	err := signup.LoadProvinces(ctx, c.opts.country)
	options, disabled := signup.Provinces()
	for _, o := range options {
		if o.Value == "" {
			fmt.Printf("-- %s --\n", o.Label)
			continue
		}
		fmt.Printf("%s  %s\n", o.Value, o.Label)
	}
	if disabled && err == nil {
		fmt.Println("(pass --country to list regions)")
	}
	return err
}

func (c *cli) checkPassword() error {
	password, err := c.secret("Password: ")
	if err != nil {
		return err
	}
	checklist := account.CheckPassword(password)
	for _, rule := range account.PasswordRules {
		box := " "
		if checklist[rule.Name] {
			box = "x"
		}
		fmt.Printf("[%s] %s\n", box, rule.Label)
	}
	if !checklist.Complete() {
		return errors.New("password does not meet the requirements")
	}
	return nil
}

func (c *cli) register(ctx context.Context) error {
	email, err := c.emailOrPrompt()
	if err != nil {
		return err
	}
	password, err := c.secret("Password: ")
	if err != nil {
		return err
	}
	confirm, err := c.secret("Confirm password: ")
	if err != nil {
		return err
	}

	reg := account.Registration{
		Email:           email,
		FirstName:       c.opts.firstName,
		LastName:        c.opts.lastName,
		DateOfBirth:     c.opts.dateOfBirth,
		Password:        password,
		ConfirmPassword: confirm,
		Country:         c.opts.country,
		Province:        c.opts.province,
		LicenseNumber:   c.opts.license,
	}
	for _, s := range strings.Split(c.opts.specialties, ",") {
		if s = strings.TrimSpace(s); s != "" {
			reg.Specialties = append(reg.Specialties, s)
		}
	}

	signup := registration.NewController(c.client, c.opts.accountType)
	ok, err := signup.Submit(ctx, reg)
	if rerr := signup.Render(os.Stdout); rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}
	if !ok {
		if focus := signup.Focused(); focus != "" {
			return fmt.Errorf("registration refused; check %s", focus)
		}
		return errors.New("registration refused")
	}
	fmt.Println("Account created.")
	return nil
}

func (c *cli) loadPosts(ctx context.Context) (*posts.Controller, error) {
	if err := c.login(ctx); err != nil {
		return nil, err
	}
	list := posts.NewController(c.client)
	if err := list.Load(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *cli) listPosts(ctx context.Context) error {
	list, err := c.loadPosts(ctx)
	if err != nil {
		return err
	}
	if c.opts.postID != "" {
		if err := list.Toggle(c.opts.postID); err != nil {
			return err
		}
	}
	return list.Render(os.Stdout)
}

func (c *cli) deletePost(ctx context.Context) error {
	if c.opts.postID == "" {
		return errors.New("--id required")
	}
	list, err := c.loadPosts(ctx)
	if err != nil {
		return err
	}
	if err := list.RequestDelete(c.opts.postID); err != nil {
		return err
	}

	answer, err := c.prompt(fmt.Sprintf("Delete post %s? [y/N] ", c.opts.postID))
	if err != nil || !strings.EqualFold(answer, "y") {
		list.CancelDelete()
		return errCancelled
	}
	if err := list.ConfirmDelete(ctx); err != nil {
		return err
	}
	return list.Render(os.Stdout)
}
