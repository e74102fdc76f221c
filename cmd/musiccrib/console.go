package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"musiccrib/internal/checkout"
	"musiccrib/internal/collab"
	"musiccrib/internal/contact"
	"musiccrib/internal/metadata"
	"musiccrib/internal/storefront"
	"musiccrib/internal/tracks"
)

// console is the interactive storefront shell.
type console struct {
	session *storefront.Session
	in      *bufio.Scanner
	out     io.Writer
}

func newConsole(session *storefront.Session, in io.Reader, out io.Writer) *console {
	return &console{
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

func (c *console) run() {
	fmt.Fprintln(c.out, "🎵 Music Crib — type 'help' for commands")

	for {
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			return
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			c.printHelp()
		case "beats":
			c.listBeats()
		case "play":
			c.play(strings.Join(args, " "))
		case "license":
			c.license(strings.Join(args, " "))
		case "cart":
			c.showCart()
		case "remove":
			c.removeItem(args)
		case "checkout":
			c.checkout()
		case "upload":
			c.upload(args)
		case "tracks":
			c.listTracks()
		case "playtrack":
			c.playTrack(args)
		case "delete":
			c.deleteTrack(args)
		case "collab":
			c.collaborate()
		case "contact":
			c.contactForm()
		case "download":
			c.download(args)
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(c.out, "Unknown command: %s\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprintln(c.out, `Commands:
  beats                 list the beat catalog
  play <beat name>      toggle a beat preview
  license <beat name>   add a beat license to the cart
  cart                  show cart contents and totals
  remove <item id>      remove a cart line item
  checkout              start the checkout flow
  upload <file>...      upload audio files to your library
  tracks                list uploaded tracks
  playtrack <id>        toggle playback of an uploaded track
  delete <id>           delete an uploaded track
  collab                send a collaboration request
  contact               send a general message
  download <action>     download a free sample
  quit                  exit`)
}

func (c *console) listBeats() {
	for _, b := range c.session.Catalog.Beats() {
		marker := ""
		if b.Bundle {
			marker = " [bundle]"
		}
		fmt.Fprintf(c.out, "  %-16s %s%s\n", b.Name, fmt.Sprintf("$%.2f", b.Price), marker)
	}
}

func (c *console) play(name string) {
	if name == "" {
		fmt.Fprintln(c.out, "Usage: play <beat name>")
		return
	}
	if _, err := c.session.PlayBeat(name); err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
	}
}

func (c *console) license(name string) {
	if name == "" {
		fmt.Fprintln(c.out, "Usage: license <beat name>")
		return
	}
	if _, err := c.session.LicenseBeat(name); err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
	}
}

func (c *console) showCart() {
	items := c.session.Cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(c.out, "Your cart is empty.")
		return
	}
	for _, item := range items {
		fmt.Fprintf(c.out, "  [%d] %-16s %s\n", item.ID, item.Name, fmt.Sprintf("$%.2f", item.Price))
	}
	totals := c.session.Cart.Totals()
	fmt.Fprintf(c.out, "  Subtotal: %s  Tax: %s  Total: %s\n",
		totals.FormatSubtotal(), totals.FormatTax(), totals.FormatTotal())
}

func (c *console) removeItem(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: remove <item id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "Bad item id: %s\n", args[0])
		return
	}
	c.session.Cart.Remove(id)
}

// checkout walks the billing form field by field, then confirms.
func (c *console) checkout() {
	if c.session.Cart.Len() == 0 {
		fmt.Fprintln(c.out, "Your cart is empty.")
		return
	}

	d := checkout.Details{
		FullName: checkout.SanitizeName(c.prompt("Full name")),
		Email:    c.prompt("Email"),
		Address:  c.prompt("Address"),
		City:     checkout.SanitizeLetters(c.prompt("City")),
		State:    checkout.SanitizeLetters(c.prompt("State/Province")),
		Postal:   checkout.SanitizeDigits(c.prompt("Postal code")),
		Country:  checkout.SanitizeLetters(c.prompt("Country")),
		Phone:    checkout.SanitizeDigits(c.prompt("Phone")),
	}

	method, err := checkout.ParsePaymentMethod(c.prompt("Payment method (card/paypal/bank/crypto)"))
	if err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
		return
	}
	d.PaymentMethod = method
	if d.PaymentMethod == checkout.PaymentCard {
		d.Card = checkout.CardDetails{
			Name:   checkout.SanitizeName(c.prompt("Cardholder name")),
			Number: checkout.FormatCardNumber(c.prompt("Card number")),
			Expiry: checkout.FormatExpiry(c.prompt("Expiry (MM/YY)")),
			CVV:    checkout.FormatCVV(c.prompt("CVV")),
		}
	}

	order, err := c.session.Checkout.Confirm(d)
	if err != nil {
		return
	}

	fmt.Fprintf(c.out, "Order %s — %d item(s), %s via %s\n",
		order.Reference, order.ItemCount, order.Totals.FormatTotal(), order.PaymentMethodLabel)
	c.session.Checkout.Finish()
}

func (c *console) upload(paths []string) {
	if len(paths) == 0 {
		fmt.Fprintln(c.out, "Usage: upload <file>...")
		return
	}
	var files []tracks.File
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(c.out, "Cannot read %s: %v\n", path, err)
			continue
		}
		name := filepath.Base(path)
		files = append(files, tracks.File{
			Name:      name,
			MediaType: metadata.ContentTypeFor(name),
			Data:      data,
		})
	}
	c.session.UploadFiles(files)
}

func (c *console) listTracks() {
	list := c.session.Tracks.Tracks()
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No uploaded tracks yet.")
		return
	}
	for _, t := range list {
		artist := t.Artist
		if artist == "" {
			artist = "Unknown Artist"
		}
		fmt.Fprintf(c.out, "  [%d] %s — %s (%s, %ds)\n", t.ID, t.Title, artist, t.Size, t.Duration)
	}
}

func (c *console) playTrack(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: playtrack <id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "Bad track id: %s\n", args[0])
		return
	}
	if _, err := c.session.PlayTrack(id); err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
	}
}

func (c *console) deleteTrack(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: delete <id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "Bad track id: %s\n", args[0])
		return
	}

	deletion, err := c.session.DeleteTrack(id)
	if err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
		return
	}

	answer := c.prompt(deletion.Message() + " (yes/no)")
	if strings.EqualFold(strings.TrimSpace(answer), "yes") {
		if err := deletion.Confirm(); err != nil {
			fmt.Fprintf(c.out, "%v\n", err)
		}
	} else {
		deletion.Cancel()
	}
}

func (c *console) collaborate() {
	form := collab.Form{
		YourName:   c.prompt("Your name"),
		YourEmail:  c.prompt("Your email"),
		RapperName: c.prompt("Artist you want to work with"),
		Message:    c.prompt("Message"),
		Phone:      c.prompt("Phone (optional)"),
	}
	_, _ = c.session.SubmitCollaboration(context.Background(), form)
}

func (c *console) contactForm() {
	form := contact.Form{
		Name:    c.prompt("Name"),
		Email:   c.prompt("Email"),
		Subject: c.prompt("Subject"),
		Message: c.prompt("Message"),
	}
	_ = c.session.Contact.Submit(form)
}

func (c *console) download(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(c.out, "Usage: download <action>, one of: %s\n",
			strings.Join(c.session.Downloads.Actions(), ", "))
		return
	}
	if _, err := c.session.DownloadSample(args[0]); err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
	}
}

func (c *console) prompt(label string) string {
	fmt.Fprintf(c.out, "%s: ", label)
	if !c.in.Scan() {
		return ""
	}
	return c.in.Text()
}
