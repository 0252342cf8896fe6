package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the list of configured networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := " "
		if network.Current {
			marker = "*"
		}
		if network.Error != nil {
			fmt.Fprintf(r.out, "%s ❌ %s - Error: %v\n", marker, network.Name, network.Error)
			continue
		}

		explorer := ""
		if !network.HasExplorer {
			explorer = hintStyle.Sprint(" (no explorer)")
		}
		fmt.Fprintf(r.out, "%s ✅ %s - Chain ID: %d%s\n", marker, network.Name, network.ChainID, explorer)
	}

	return nil
}
