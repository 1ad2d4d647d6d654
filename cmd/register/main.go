// Command register drives a registration end to end from the terminal:
// gate check, form submit, and card download.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gatepass/pkg/regclient"
)

func main() {
	var (
		apiBase  = flag.String("api", "http://localhost:8000", "API base URL")
		eventID  = flag.String("event", "", "event ID from the registration link")
		first    = flag.String("first", "", "first name")
		last     = flag.String("last", "", "last name")
		email    = flag.String("email", "", "email address")
		idType   = flag.String("id-type", "passport", "ID type: aadhar, passport, college_id or other")
		idNumber = flag.String("id-number", "", "ID number")
		photo    = flag.String("photo", "", "path to profile photo")
		group    = flag.Int("group", 1, "group size (2+ registers a group)")
		out      = flag.String("out", "visitor-card.png", "where to save the card")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, *apiBase, *eventID, *first, *last, *email, *idType, *idNumber, *photo, *group, *out); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, apiBase, eventID, first, last, email, idType, idNumber, photoPath string, group int, out string) error {
	client := regclient.New(apiBase)

	if client.CheckEvent(ctx, eventID) != regclient.GateActive {
		return fmt.Errorf("event %q is not accepting registrations", eventID)
	}

	f, err := os.Open(photoPath)
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	form := regclient.Form{
		FirstName:     first,
		LastName:      last,
		Email:         email,
		IDType:        idType,
		IDNumber:      idNumber,
		IsGroup:       group >= 2,
		GroupCount:    group,
		PhotoFilename: photoPath,
		Photo:         f,
	}

	result, err := client.Submit(ctx, eventID, form)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)

	if result.VisitorCardURL == nil {
		fmt.Println("Visitor card is not available yet; it will be emailed to you.")
		return nil
	}

	data, err := client.Download(ctx, client.DownloadURL(*result.VisitorCardURL))
	if err != nil {
		return fmt.Errorf("download card: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	fmt.Println("Visitor card saved to", out)
	return nil
}
