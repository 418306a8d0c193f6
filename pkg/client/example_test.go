package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/RomanDenysov/qr-payment-sk/pkg/client"
)

// Example demonstrates anonymous QR payment generation
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.qr-payment.sk",
	})

	resp, err := c.Payments().Generate(context.Background(), client.GenerateRequest{
		IBAN:           "SK8902000000000026600007",
		AmountCents:    2500,
		VariableSymbol: "1234567890",
		Note:           "Strih vlasov",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Payload: %s\n", resp.Payload)
}

// ExampleClient_Login demonstrates authentication and the usage ledger
func ExampleClient_Login() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.qr-payment.sk",
	})

	ctx := context.Background()

	auth, err := c.Login(ctx, "jana@example.sk", "password")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Logged in as: %s\n", auth.User.Email)

	usage, err := c.Usage().Get(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d of %d generations used\n", usage.Used, usage.Limit)
}

// ExampleBillingService_TopUp demonstrates buying the next limit step
func ExampleBillingService_TopUp() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.qr-payment.sk",
		Token:   "jwt-access-token",
	})

	result, err := c.Billing().TopUp(context.Background(), "ch_1abc")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("New monthly limit: %d\n", result.Usage.Limit)
}
