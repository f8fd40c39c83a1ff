package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/relentron/website/internal/enquiryform"
	"github.com/relentron/website/internal/models"
)

var enquireCmd = &cobra.Command{
	Use:   "enquire",
	Short: "Submit an enquiry from the terminal",
	Long: `Fill in and submit the website enquiry form against a running server.
Every field can be given as a flag; anything missing is prompted for.

Example:
  relentron enquire --api https://relentron.com --captcha-token TOKEN
  relentron enquire --name "Jane Doe" --email jane@x.com --phone 9876543210 \
    --service Website --message "Need a site" --captcha-token TOKEN --no-input`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := enquireOptions{}
		opts.api, _ = cmd.Flags().GetString("api")
		opts.token, _ = cmd.Flags().GetString("captcha-token")
		opts.values.Name, _ = cmd.Flags().GetString("name")
		opts.values.Email, _ = cmd.Flags().GetString("email")
		opts.values.Phone, _ = cmd.Flags().GetString("phone")
		opts.values.Service, _ = cmd.Flags().GetString("service")
		opts.values.Message, _ = cmd.Flags().GetString("message")
		opts.noInput, _ = cmd.Flags().GetBool("no-input")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		transport := enquiryform.NewHTTPClient(opts.api, timeout)
		return runEnquire(background(cmd), os.Stdin, cmd.OutOrStdout(), transport, opts)
	},
}

func initEnquireFlags() {
	enquireCmd.Flags().String("api", "http://localhost:8080", "Base URL of the enquiry API")
	enquireCmd.Flags().String("captcha-token", "", "reCAPTCHA token obtained from the site widget")
	enquireCmd.Flags().String("name", "", "Your name")
	enquireCmd.Flags().String("email", "", "Your email address")
	enquireCmd.Flags().String("phone", "", "Your 10-digit phone number")
	enquireCmd.Flags().String("service", "", "Service code (Website, MobileApp, Software, DigitalMarketing, Others)")
	enquireCmd.Flags().String("message", "", "Your message")
	enquireCmd.Flags().Bool("no-input", false, "Fail instead of prompting for missing or invalid fields")
	enquireCmd.Flags().Duration("timeout", 30*time.Second, "HTTP timeout for the submission")
}

type enquireOptions struct {
	api     string
	token   string
	values  enquiryform.Values
	noInput bool
}

var fieldOrder = []string{
	enquiryform.FieldName,
	enquiryform.FieldEmail,
	enquiryform.FieldPhone,
	enquiryform.FieldService,
	enquiryform.FieldMessage,
}

var fieldPrompts = map[string]string{
	enquiryform.FieldName:    "Name",
	enquiryform.FieldEmail:   "Email",
	enquiryform.FieldPhone:   "Phone (10 digits)",
	enquiryform.FieldService: "Service",
	enquiryform.FieldMessage: "Message",
}

var guardHints = map[string]string{
	enquiryform.FieldName:  "letters and spaces only",
	enquiryform.FieldPhone: "digits only, at most 10",
}

type prompter struct {
	in      *bufio.Reader
	out     io.Writer
	noInput bool
}

func (p *prompter) ask(label string) (string, error) {
	if p.noInput {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// fill sets field from preset if given, otherwise prompts until the
// keystroke guard accepts the input
func (p *prompter) fill(form *enquiryform.Form, field, preset string) error {
	if preset != "" {
		if form.SetField(field, preset) {
			return nil
		}
		if p.noInput {
			return fmt.Errorf("invalid --%s: %s", field, guardHints[field])
		}
		fmt.Fprintf(p.out, "  --%s rejected (%s)\n", field, guardHints[field])
	}

	if field == enquiryform.FieldService && !p.noInput {
		for i, s := range models.Services() {
			fmt.Fprintf(p.out, "  %d) %s [%s]\n", i+1, s.Label(), s)
		}
	}

	for {
		value, err := p.ask(fieldPrompts[field])
		if err != nil {
			return err
		}
		if field == enquiryform.FieldService {
			value = serviceChoice(value)
		}
		if form.SetField(field, value) {
			return nil
		}
		fmt.Fprintf(p.out, "  %s\n", guardHints[field])
	}
}

func (p *prompter) token(form *enquiryform.Form, preset string) error {
	if preset != "" {
		form.OnToken(preset)
		return nil
	}
	token, err := p.ask("reCAPTCHA token")
	if err != nil {
		return err
	}
	form.OnToken(strings.TrimSpace(token))
	return nil
}

// serviceChoice accepts either a menu number or a service code
func serviceChoice(value string) string {
	value = strings.TrimSpace(value)
	services := models.Services()
	if n, err := strconv.Atoi(value); err == nil && n >= 1 && n <= len(services) {
		return string(services[n-1])
	}
	return value
}

func runEnquire(ctx context.Context, in io.Reader, out io.Writer, transport enquiryform.Transport, opts enquireOptions) error {
	form := enquiryform.New(transport, enquiryform.WithMode(enquiryform.ModeEmbedded))
	form.OnLoad()

	p := &prompter{in: bufio.NewReader(in), out: out, noInput: opts.noInput}

	presets := map[string]string{
		enquiryform.FieldName:    opts.values.Name,
		enquiryform.FieldEmail:   opts.values.Email,
		enquiryform.FieldPhone:   opts.values.Phone,
		enquiryform.FieldService: opts.values.Service,
		enquiryform.FieldMessage: opts.values.Message,
	}
	for _, field := range fieldOrder {
		if err := p.fill(form, field, presets[field]); err != nil {
			return err
		}
	}
	if err := p.token(form, opts.token); err != nil {
		return err
	}

	for {
		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond, spinner.WithWriter(out))
		s.Suffix = " " + enquiryform.StatusSubmitting
		s.Start()
		result, err := form.Submit(ctx)
		s.Stop()

		snap := form.Snapshot()
		var netErr *enquiryform.NetworkError
		switch {
		case errors.As(err, &netErr):
			fmt.Fprintf(out, "%s (%v)\n", snap.Status, netErr.Err)
			return err
		case err != nil && !errors.Is(err, enquiryform.ErrInvalid):
			return err
		case err == nil && result.Success:
			fmt.Fprintln(out, snap.Status)
			return nil
		}

		fmt.Fprintln(out, snap.Status)
		printFieldErrors(out, snap.Errors)
		if p.noInput {
			return errors.New(snap.Status)
		}

		// Re-prompt what the form or the server flagged. A spent token
		// always needs replacing.
		for _, field := range fieldOrder {
			if _, bad := snap.Errors[field]; bad {
				if err := p.fill(form, field, ""); err != nil {
					return err
				}
			}
		}
		if !form.Snapshot().HasToken {
			if err := p.token(form, ""); err != nil {
				return err
			}
		}
	}
}

func printFieldErrors(out io.Writer, errs map[string]string) {
	fields := append([]string{}, fieldOrder...)
	for _, field := range append(fields, enquiryform.FieldRecaptcha) {
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(out, "  %s: %s\n", field, msg)
		}
	}
}
