/*
Package node implements the workflow nodes of listnode and the small host
contract they run under.

A node receives a Message, merges its payload over the node Config, and
sends exactly one Message downstream per input. API-backed nodes run one
session-wrapped call through marketing.API and report progress through a
StatusFunc: a yellow ring while the call is in flight, then a green dot or
a red ring carrying the error message.

The output payload is either

	{"success": true, "data": ...}

or

	{"success": false, "errorMessage": "..."}

and on failure Message.Error carries the same message.

# Usage

	reg, err := node.DefaultRegistry(node.Deps{API: api, Webhooks: hooks, Logger: logger})
	if err != nil {
		return err
	}
	n, err := reg.Create("tag-add", node.Config{"tags": "vip"}, nil)
	if err != nil {
		return err
	}
	n.Input(ctx, node.NewMessage(map[string]any{"id": 42}), func(out node.Message) {
		fmt.Println(out.Payload)
	})

# Credentials

Nodes log in with the credentials bound to Deps.API. A node Config holding
both "login" and "password" uses those instead.
*/
package node
