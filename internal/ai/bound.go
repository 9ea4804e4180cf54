package ai

import "context"

// BoundClient fixes a client to one upstream configuration so callers see
// the narrow complete(messages, options) surface and nothing else.
type BoundClient struct {
	client *OpenAICompatibleClient
	cfg    ChatConfig
}

func (c *OpenAICompatibleClient) Bind(cfg ChatConfig) *BoundClient {
	return &BoundClient{client: c, cfg: cfg}
}

func (b *BoundClient) Complete(ctx context.Context, messages []ChatMessage, opts CompleteOptions) (string, error) {
	return b.client.Complete(ctx, b.cfg, messages, opts)
}
