package role

import (
	"github.com/sareeloom/storefront/cmd/shopadm/subcommands/role/grant"
	"github.com/sareeloom/storefront/cmd/shopadm/subcommands/role/list"
	"github.com/sareeloom/storefront/cmd/shopadm/subcommands/role/revoke"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	g, err := grant.New()
	if err != nil {
		return nil, err
	}
	r, err := revoke.New()
	if err != nil {
		return nil, err
	}
	l, err := list.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manage back-office roles.",
		struct{}{},
		flarc.WithSubcommand("grant", g),
		flarc.WithSubcommand("revoke", r),
		flarc.WithSubcommand("list", l),
	)
}
