// supaguard-check validates a single credential against a Supabase
// project and prints the resolved identity, exactly the way the guard
// would judge it at request time.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/af-corp/supaguard/guard"
)

func main() {
	token := flag.String("token", "", "credential to validate (required; raw JWT, sent as \"Bearer <token>\")")
	endpoint := flag.String("url", "", "Supabase project URL (overrides SUPABASE_URL)")
	key := flag.String("key", "", "Supabase anon key (overrides SUPABASE_ANON_KEY)")
	timeout := flag.Duration("timeout", 10*time.Second, "backend call timeout")
	flag.Parse()

	if *token == "" {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "\nerror: -token is required")
		os.Exit(1)
	}

	g := guard.NewStrict(guard.Config{
		Endpoint:  *endpoint,
		AccessKey: *key,
	}, guard.DefaultFactory, guard.DefaultIdentifier)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sess, rejection := g.Authenticate(ctx, "Bearer "+*token)
	if rejection != nil {
		msg := rejection.Message
		if msg == "" {
			msg = "credential rejected by backend"
		}
		fmt.Fprintf(os.Stderr, "rejected (status %d): %s\n", rejection.Status, msg)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(sess.User, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode identity: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
