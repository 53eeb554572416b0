package service

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jvdl/esperanto/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteDependencyGraph writes the dependency graph response in the specified format
func (f *OutputFormatterImpl) WriteDependencyGraph(response *domain.DependencyGraphResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeDependencyGraphJSON(response, writer)
	case domain.OutputFormatText:
		return f.writeDependencyGraphText(response, writer)
	case domain.OutputFormatDOT:
		dotFormatter := NewDOTFormatter(nil)
		return dotFormatter.WriteDependencyGraph(response, writer)
	default:
		return fmt.Errorf("unsupported output format for dependency graph: %s", format)
	}
}

// writeDependencyGraphJSON writes dependency graph as JSON
func (f *OutputFormatterImpl) writeDependencyGraphJSON(response *domain.DependencyGraphResponse, writer io.Writer) error {
	return WriteJSON(writer, response)
}

// writeDependencyGraphText writes dependency graph as plain text
func (f *OutputFormatterImpl) writeDependencyGraphText(response *domain.DependencyGraphResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Dependency Graph Analysis ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	if response.Graph == nil {
		fmt.Fprintln(writer, "No graph data available.")
		return nil
	}

	graph := response.Graph
	analysis := response.Analysis

	// Summary
	fmt.Fprintln(writer, "Summary:")
	fmt.Fprintf(writer, "  Total modules: %d\n", graph.NodeCount())
	fmt.Fprintf(writer, "  Total dependencies: %d\n", graph.EdgeCount())

	if analysis != nil {
		fmt.Fprintf(writer, "  Root modules (entry points): %d\n", len(analysis.RootModules))
		fmt.Fprintf(writer, "  Leaf modules (no dependencies): %d\n", len(analysis.LeafModules))
		fmt.Fprintf(writer, "  Max depth: %d\n", analysis.MaxDepth)
	}
	fmt.Fprintln(writer)

	// Circular dependencies
	if analysis != nil && analysis.CircularDependencies != nil && analysis.CircularDependencies.HasCircularDependencies {
		cd := analysis.CircularDependencies
		fmt.Fprintln(writer, "Circular Dependencies:")
		fmt.Fprintf(writer, "  Total cycles: %d\n", cd.TotalCycles)
		fmt.Fprintf(writer, "  Modules in cycles: %d\n", cd.TotalModulesInCycles)
		fmt.Fprintln(writer)

		for i, cycle := range cd.CircularDependencies {
			fmt.Fprintf(writer, "  Cycle %d [%s]:\n", i+1, cycle.Severity)
			for _, mod := range cycle.Modules {
				fmt.Fprintf(writer, "    - %s\n", mod)
			}
		}
		fmt.Fprintln(writer)
	}

	// Coupling analysis
	if analysis != nil && analysis.CouplingAnalysis != nil {
		ca := analysis.CouplingAnalysis
		fmt.Fprintln(writer, "Coupling Analysis:")
		fmt.Fprintf(writer, "  Average coupling: %.2f\n", ca.AverageCoupling)
		fmt.Fprintf(writer, "  Average instability: %.2f\n", ca.AverageInstability)
		fmt.Fprintf(writer, "  Highly coupled modules: %d\n", len(ca.HighlyCoupledModules))
		fmt.Fprintf(writer, "  Stable modules: %d\n", len(ca.StableModules))
		fmt.Fprintln(writer)
	}

	// Entry points
	if analysis != nil && len(analysis.RootModules) > 0 {
		fmt.Fprintln(writer, "Entry Points:")
		for _, mod := range analysis.RootModules {
			fmt.Fprintf(writer, "  - %s\n", mod)
		}
		fmt.Fprintln(writer)
	}

	// Warnings
	if len(response.Warnings) > 0 {
		fmt.Fprintln(writer, "Warnings:")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
		fmt.Fprintln(writer)
	}

	// Errors
	if len(response.Errors) > 0 {
		fmt.Fprintln(writer, "Errors:")
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
		fmt.Fprintln(writer)
	}

	return nil
}
