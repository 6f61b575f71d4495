package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/eiannone/keyboard"

	"daoshares/deploy"
	"daoshares/engine/actors"
	"daoshares/engine/library"
	"daoshares/state/shares"
)

// cliListener listens for keypresses and executes commands against the DAOTester deployment.
func cliListener(interrupt chan struct{}, d *deploy.Deployments) {
	fmt.Println("VIEW CURRENT STATE:\ns: cap table\ne: RequestShares history\nr: request shares as deployer\no: request shares as other\nw: named accounts\nc: engine config\nq: to quit\nSee cliListener.go for more")
	stdin := bufio.NewReader(os.Stdin)
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			panic(err)
		}
		registry, err := d.GetContract(deploy.DAOTesterName)
		if err != nil {
			fmt.Println(err)
			continue
		}
		str := string(r)
		switch str {
		default:
			if k == keyboard.KeyEnter {
				fmt.Println("\n-----------------------------------")
				break
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to any test procedures. See main.cliListener for more details.")
		case "s":
			fmt.Printf("\n--------- Registry: %s -----------\n", registry.Address())
			fmt.Printf("\nDeployer: %s\nTotal Supply: %d\nUnallocated: %d\n", registry.Deployer(), registry.TotalSupply(), registry.Unallocated())
			for _, account := range registry.Holders() {
				pm, err := registry.Permille(account)
				if err != nil {
					library.LogCLI(err, 2)
				}
				fmt.Printf("\nAccount: %s\nShares: %d Permille: %d\n", account, registry.GetShares(account), pm)
			}
			fmt.Printf("\n--------- End of data for: %s -----------\n\n", registry.Address())
		case "e":
			records, err := registry.QueryEvents(shares.EventRequestShares, -10000)
			if err != nil {
				fmt.Println(err)
				break
			}
			fmt.Printf("\n%d RequestShares events\n", len(records))
			for _, record := range records {
				printRequest(record)
			}
		case "r", "o":
			role := "deployer"
			if str == "o" {
				role = "other"
			}
			caller, err := d.NamedAccounts().Get(role)
			if err != nil {
				fmt.Println(err)
				break
			}
			fmt.Printf("Number of shares to request as %s: ", role)
			line, _ := stdin.ReadString('\n')
			amount, err := shares.ParseAmount(strings.TrimSpace(line))
			if err != nil {
				fmt.Println(err)
				break
			}
			w, err := registry.Once(shares.EventRequestShares)
			if err != nil {
				fmt.Println(err)
				break
			}
			session := registry.Connect(caller)
			if _, err = session.CreateRequest(amount); err != nil {
				w.Cancel()
				fmt.Println(err)
				break
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			record, err := w.Wait(ctx)
			cancel()
			if err != nil {
				fmt.Println(err)
				break
			}
			printRequest(record)
			fmt.Printf("%s now holds %d shares\n", session.Account(), session.GetShares())
		case "q":
			close(interrupt)
			return
		case "w":
			for _, role := range d.NamedAccounts().Roles() {
				w, _ := d.NamedAccounts().Get(role)
				fmt.Printf("%s: %s\nShares: %d\n", role, w.Account, registry.GetShares(w.Account))
			}
		case "c":
			fmt.Println("CURRENT CONFIG")
			for k, v := range actors.MakeOrGetConfig().AllSettings() {
				fmt.Printf("\nKey: %s; Value: %v\n", k, v)
			}
		}
	}
}
