package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/listnode/node"
)

var (
	inputFile string
	setValues []string
	cfgValues []string
)

// nodeCmd groups the node commands
var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Inspect and run workflow nodes",
}

var nodeTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the registered node types",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, t := range registry.Types() {
			fmt.Println(t)
		}
		return nil
	},
}

var nodeRunCmd = &cobra.Command{
	Use:   "run <type>",
	Short: "Run one message through a node",
	Long: `Run one message through a node and print the output message as JSON.

The input message is read from --input (YAML or JSON, either a full message
with a payload key or a bare payload) and extended with --set key=value.
--config-value key=value sets node configuration. Values are parsed as YAML, so
--set ids=[1,2] passes a list.`,
	Args: cobra.ExactArgs(1),
	RunE: runNode,
}

func init() {
	nodeRunCmd.Flags().StringVarP(&inputFile, "input", "i", "", "YAML or JSON file holding the input message")
	nodeRunCmd.Flags().StringArrayVarP(&setValues, "set", "s", nil, "payload value as key=value (repeatable)")
	nodeRunCmd.Flags().StringArrayVarP(&cfgValues, "config-value", "c", nil, "node config value as key=value (repeatable)")

	nodeCmd.AddCommand(nodeTypesCmd)
	nodeCmd.AddCommand(nodeRunCmd)
}

func runNode(cmd *cobra.Command, args []string) error {
	msg, err := readMessage(inputFile)
	if err != nil {
		return err
	}
	if err := applyValues(msg.Payload, setValues); err != nil {
		return err
	}

	nodeCfg := node.Config{}
	if err := applyValues(nodeCfg, cfgValues); err != nil {
		return err
	}

	n, err := registry.Create(args[0], nodeCfg, func(s node.Status) {
		logger.Debug().Str("fill", s.Fill).Str("shape", s.Shape).Msg(s.Text)
	})
	if err != nil {
		return err
	}

	var out []node.Message
	n.Input(cmd.Context(), msg, func(m node.Message) {
		out = append(out, m)
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, m := range out {
		if err := enc.Encode(m); err != nil {
			return err
		}
	}

	if len(out) == 1 && out[0].Error != "" {
		return fmt.Errorf("%s failed: %s", args[0], out[0].Error)
	}
	return nil
}

// readMessage loads the input message. A document without a payload key is
// taken as the payload itself.
func readMessage(path string) (node.Message, error) {
	msg := node.NewMessage(map[string]any{})
	if path == "" {
		return msg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return msg, fmt.Errorf("failed to read input: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return msg, fmt.Errorf("failed to parse input %s: %w", path, err)
	}

	if doc == nil {
		return msg, nil
	}

	payload, ok := doc["payload"].(map[string]any)
	if !ok {
		msg.Payload = doc
		return msg, nil
	}

	msg.Payload = payload
	if msg.Payload == nil {
		msg.Payload = map[string]any{}
	}
	if topic, ok := doc["topic"].(string); ok {
		msg.Topic = topic
	}
	if id, ok := doc["id"].(string); ok && id != "" {
		msg.ID = id
	}
	return msg, nil
}

// applyValues parses key=value pairs into dst, decoding values as YAML
func applyValues(dst map[string]any, pairs []string) error {
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid value %q, expected key=value", pair)
		}

		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
			v = raw
		}
		dst[key] = v
	}
	return nil
}
