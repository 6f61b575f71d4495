package deploy

import (
	"github.com/spf13/viper"

	"daoshares/state/shares"
)

const DAOTesterName = "DAOTester"

// ArgsFromConfig reads the DAOTester constructor arguments. The supply keys are parsed as text so a
// negative value is ErrInvalidSupply instead of silently becoming 0.
func ArgsFromConfig(conf *viper.Viper) (Args, error) {
	total, deployerShares, err := shares.ParseSupply(conf.GetString("totalSupply"), conf.GetString("deployerShares"))
	if err != nil {
		return Args{}, err
	}
	return Args{
		TotalSupply:    total,
		DeployerShares: deployerShares,
		Salt:           conf.GetString("deploymentSalt"),
		Log:            conf.GetBool("logDeployments"),
	}, nil
}

// DAOTester deploys the shareholder registry from the deployer account, tagged "all".
// Constructor arguments come from the totalSupply and deployerShares config keys.
func DAOTester(conf *viper.Viper) Script {
	return Script{
		Name: DAOTesterName,
		Tags: []string{"all"},
		Run: func(d *Deployments) error {
			deployer, err := d.NamedAccounts().Get("deployer")
			if err != nil {
				return err
			}
			args, err := ArgsFromConfig(conf)
			if err != nil {
				return err
			}
			_, err = d.Deploy(DAOTesterName, deployer, args)
			return err
		},
	}
}
