package main

import (
	"context"

	mark2doc "github.com/alnah/go-mark2doc"
)

// CLIConverter is the converter surface the CLI depends on.
type CLIConverter interface {
	Convert(ctx context.Context, input mark2doc.Input) (*mark2doc.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mark2doc.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// converterPool adapts mark2doc.ConverterPool to the Pool interface.
type converterPool struct {
	inner *mark2doc.ConverterPool
}

// Compile-time interface implementation check.
var _ Pool = (*converterPool)(nil)

func newConverterPool(n int, opts ...mark2doc.Option) Pool {
	return &converterPool{inner: mark2doc.NewConverterPool(n, opts...)}
}

func (p *converterPool) Acquire() (CLIConverter, error) {
	return p.inner.Acquire()
}

func (p *converterPool) Release(conv CLIConverter) {
	if c, ok := conv.(*mark2doc.Converter); ok {
		p.inner.Release(c)
	}
}

func (p *converterPool) Size() int { return p.inner.Size() }

func (p *converterPool) Close() error { return p.inner.Close() }
