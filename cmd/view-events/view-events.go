package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"daoshares/engine/actors"
	"daoshares/engine/library"
	"daoshares/messaging/events"
	"daoshares/messaging/relays"
	"daoshares/state/shares"
)

// view-events prints the RequestShares history of a registry, from the local event db or from relays.
func main() {
	conf := viper.New()
	actors.InitConfig(conf)
	// flags are bound after InitConfig so they are not written back to config.yaml
	if err := bindFlags(conf, os.Args[1:]); err != nil {
		library.LogCLI(err.Error(), 0)
		os.Exit(1)
	}
	actors.SetConfig(conf)
	from := conf.GetInt64("from")
	registry := conf.GetString("registry")
	fromRelays := conf.GetBool("relays")

	filter := nostr.Filter{Kinds: []int{shares.KindRequestShares}}
	if len(registry) > 0 {
		if !library.IsAccount(registry) {
			fmt.Printf("%s is not a registry address\n", registry)
			os.Exit(1)
		}
		filter.Authors = []string{registry}
	}

	var records []events.Record
	if fromRelays {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		for i, e := range relays.Fetch(ctx, conf.GetStringSlice("relaysMust"), filter) {
			records = append(records, events.Record{Seq: uint64(i), Event: e})
		}
	} else {
		store, err := events.OpenBoltStore(actors.EventDbPath())
		if err != nil {
			library.LogCLI(err.Error(), 0)
			os.Exit(1)
		}
		l := events.NewLog(store)
		defer l.Close()
		records, err = l.Query(filter, from)
		if err != nil {
			library.LogCLI(err.Error(), 0)
			return
		}
	}
	for _, r := range records {
		req, err := shares.DecodeRequest(r.Event)
		if err != nil {
			fmt.Printf("#%d INVALID %s: %s\n", r.Seq, r.Event.ID, err.Error())
			continue
		}
		fmt.Printf("#%d %s requested %d shares from %s at %s\n", r.Seq, req.Requester, req.Amount, req.Registry, time.Unix(int64(r.Event.CreatedAt), 0).String())
	}
}

// bindFlags parses args and makes from, registry and relays available as config keys.
func bindFlags(conf *viper.Viper, args []string) error {
	flags := pflag.NewFlagSet("view-events", pflag.ContinueOnError)
	flags.Int64("from", -10000, "offset to start from, negative counts back from the newest event")
	flags.String("registry", "", "registry address, all registries if empty")
	flags.Bool("relays", false, "fetch from the configured relays instead of the local event db")
	if err := flags.Parse(args); err != nil {
		return err
	}
	return conf.BindPFlags(flags)
}
