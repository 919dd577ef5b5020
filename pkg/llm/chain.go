package llm

import "context"

// Middleware wraps a Client with additional behavior.
type Middleware func(next Client) Client

type clientFunc struct {
	complete func(context.Context, Request) (Response, error)
	model    func() string
}

func (f clientFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f.complete(ctx, req)
}

func (f clientFunc) ModelName() string { return f.model() }

// WrapClient builds a Client from plain functions.
func WrapClient(complete func(context.Context, Request) (Response, error), model func() string) Client {
	return clientFunc{complete: complete, model: model}
}

// ClientFunc adapts a completion function into a Client named "func".
type ClientFunc func(ctx context.Context, req Request) (Response, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (Response, error) { return f(ctx, req) }

func (f ClientFunc) ModelName() string { return "func" }

// Chain composes middlewares around base. The first middleware is outermost:
//
//	Chain(client, mw1, mw2) runs mw1 -> mw2 -> client
func Chain(base Client, middlewares ...Middleware) Client {
	client := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		client = middlewares[i](client)
	}
	return client
}
