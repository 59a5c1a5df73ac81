// Command token issues a development JWT for the marketplace gRPC API.
//
//	JWT_SECRET=dev go run ./cmd/token -address 0x... [-role custodian] [-ttl 24h]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/simaogato/royaltymarket-backend/internal/auth"
)

func main() {
	address := flag.String("address", "", "caller address (hex)")
	role := flag.String("role", "", "optional role claim, e.g. "+auth.RoleCustodian)
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fail("JWT_SECRET must be set")
	}
	if !common.IsHexAddress(*address) {
		fail("-address must be a hex address")
	}

	token, expiresAt, err := auth.JWT{Secret: []byte(secret), TokenTTL: *ttl}.Issue(common.HexToAddress(*address), *role)
	if err != nil {
		fail(err.Error())
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "token:", msg)
	os.Exit(1)
}
