package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/viper"

	"daoshares/deploy"
	"daoshares/engine/actors"
	"daoshares/engine/library"
	"daoshares/messaging/events"
	"daoshares/messaging/relays"
	"daoshares/state/shares"
)

func main() {
	// Various aspect of this application require global and local settings. To keep things
	// clean and tidy we put these settings in a Viper configuration.
	conf := viper.New()

	// Now we initialise this configuration with basic settings that are required on startup.
	actors.InitConfig(conf)
	// make the config accessible globally
	actors.SetConfig(conf)
	fmt.Println("CURRENT CONFIG")
	for k, v := range actors.MakeOrGetConfig().AllSettings() {
		fmt.Printf("\nKey: %s; Value: %v\n", k, v)
	}
	terminateChan := make(chan struct{})
	actors.SetTerminateChan(terminateChan)

	accounts, err := deploy.ResolveNamedAccounts(actors.MyWallet().SeedWords, deploy.DefaultNamedAccounts)
	if err != nil {
		library.LogCLI(err.Error(), 0)
		os.Exit(1)
	}
	store, err := events.OpenBoltStore(actors.EventDbPath())
	if err != nil {
		library.LogCLI(err.Error(), 0)
		os.Exit(1)
	}
	eventLog := events.NewLog(store)
	deployments := deploy.New(accounts, func() (*events.Log, error) { return eventLog, nil })
	registry, err := startRegistry(conf, deployments, eventLog)
	if err != nil {
		library.LogCLI(err.Error(), 0)
		_ = eventLog.Close()
		os.Exit(1)
	}

	var publisher *relays.Publisher
	if !conf.GetBool("doNotPublish") {
		filter, _ := registry.Filter(shares.EventRequestShares)
		publisher = relays.StartPublisher(eventLog, filter, conf.GetStringSlice("relaysMust"), nil, terminateChan)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		select {
		case <-interrupt:
			close(terminateChan)
		case <-terminateChan:
		}
	}()
	go cliListener(terminateChan, deployments)

	<-terminateChan
	if publisher != nil {
		publisher.Stop()
	}
	actors.GetWaitGroup().Wait()
	if err := deployments.Close(); err != nil {
		library.LogCLI(err.Error(), 1)
	}
	library.LogCLI("Engine has shut down", 4)
}

// startRegistry restores the DAOTester cap table from disk, or deploys it on first run.
func startRegistry(conf *viper.Viper, d *deploy.Deployments, l *events.Log) (*shares.Registry, error) {
	deployer, err := d.NamedAccounts().Get("deployer")
	if err != nil {
		return nil, err
	}
	registry, err := shares.Restore(deployer, shares.WithSalt(conf.GetString("deploymentSalt")), shares.WithLog(l))
	if err == nil {
		d.Adopt(deploy.DAOTesterName, registry)
		return registry, nil
	}
	if !errors.Is(err, shares.ErrNoSnapshot) {
		return nil, err
	}
	args, err := deploy.ArgsFromConfig(conf)
	if err != nil {
		return nil, err
	}
	args.Persist = true
	return d.Deploy(deploy.DAOTesterName, deployer, args)
}

func printRequest(r events.Record) {
	req, err := shares.DecodeRequest(r.Event)
	if err != nil {
		fmt.Printf("\n#%d INVALID %s: %s\n", r.Seq, r.Event.ID, err.Error())
		return
	}
	fmt.Printf("\n#%d Event: %s\nRequester: %s\nAmount: %d\nCreated At: %s\n", r.Seq, r.Event.ID, req.Requester, req.Amount, time.Unix(int64(r.Event.CreatedAt), 0).String())
}

