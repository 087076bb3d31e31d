// pkg/core/apply.go
package core

import (
	"context"
	"fmt"

	"github.com/joeydtaylor/steeze-protocol/pkg/manifest"
	"github.com/joeydtaylor/steeze-protocol/pkg/protocol"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DeclareSchemes grants the privileges listed in cfg. Call it before the
// application is marked ready.
func (p *Protocol) DeclareSchemes(cfg manifest.Config) error {
	for i, ss := range cfg.Schemes {
		if err := p.RegisterSchemesAsPrivileged(ss.Names, ss.Options()); err != nil {
			return fmt.Errorf("scheme %d: %w", i, err)
		}
	}
	return nil
}

// Apply declares the manifest's schemes, marks the scheme table ready, then
// installs its protocols. A declaration error stops before anything is
// installed.
func (p *Protocol) Apply(ctx context.Context, cfg manifest.Config) error {
	if err := p.DeclareSchemes(cfg); err != nil {
		return err
	}
	p.schemes.MarkReady()
	p.log.Info("scheme table ready", zap.Strings("standard", p.schemes.StandardSchemes()), zap.Strings("args", p.schemes.Args()))
	return p.InstallProtocols(ctx, cfg)
}

type installResult struct {
	section string
	scheme  string
	err     error
}

// InstallProtocols registers and intercepts every manifest entry and waits
// for all completions. It must not be called from a control-loop task: the
// completions it waits for run there.
func (p *Protocol) InstallProtocols(ctx context.Context, cfg manifest.Config) error {
	total := len(cfg.Protocols) + len(cfg.Intercepts)
	if total == 0 {
		return nil
	}
	results := make(chan installResult, total)
	var err error
	pending := 0

	issue := func(section string, specs []manifest.ProtocolSpec, op func(string, protocol.Handler, Completion)) {
		for _, ps := range specs {
			h, e := BuildHandler(ps)
			if e != nil {
				err = multierr.Append(err, fmt.Errorf("%s %s: %w", section, ps.Scheme, e))
				continue
			}
			section, s := section, ps.Scheme
			pending++
			op(s, h, func(e error) { results <- installResult{section: section, scheme: s, err: e} })
		}
	}
	issue("protocol", cfg.Protocols, p.RegisterProtocol)
	issue("intercept", cfg.Intercepts, p.InterceptProtocol)

	for ; pending > 0; pending-- {
		select {
		case r := <-results:
			if r.err != nil {
				err = multierr.Append(err, fmt.Errorf("%s %s: %w", r.section, r.scheme, r.err))
				continue
			}
			p.log.Info("protocol installed", zap.String("section", r.section), zap.String("scheme", r.scheme))
		case <-ctx.Done():
			return multierr.Append(err, fmt.Errorf("install protocols: %w (%d pending)", ctx.Err(), pending))
		}
	}
	return err
}
