package process

import (
	"context"

	"github.com/tauraamui/vidupscale/pkg/log"
)

type Process interface {
	Start()
	Stop()
	Wait()
}

type Settings struct {
	WaitForShutdownMsg string
	// Parent bounds the process lifetime, defaults to context.Background.
	Parent  context.Context
	Process func(context.Context) []chan interface{}
}

func New(settings Settings) Process {
	parent := settings.Parent
	if parent == nil {
		parent = context.Background()
	}
	return &process{
		parent:             parent,
		waitForShutdownMsg: settings.WaitForShutdownMsg,
		process:            settings.Process,
	}
}

type process struct {
	parent             context.Context
	process            func(context.Context) []chan interface{}
	waitForShutdownMsg string
	canceller          context.CancelFunc
	signals            []chan interface{}
}

func (p *process) logShutdown() {
	if len(p.waitForShutdownMsg) > 0 {
		log.Debug(p.waitForShutdownMsg)
	}
}

func (p *process) Start() {
	ctx, canceller := context.WithCancel(p.parent)
	p.canceller = canceller
	p.signals = append(p.signals, p.process(ctx)...)
}

func (p *process) Stop() {
	p.logShutdown()
	if p.canceller != nil {
		p.canceller()
	}
}

func (p *process) Wait() {
	for _, sig := range p.signals {
		<-sig
	}
}
