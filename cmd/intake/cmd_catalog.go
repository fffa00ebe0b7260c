// cmd/intake/cmd_catalog.go
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"eligibility-intake/internal/models"
)

var programsInstitution string

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List mandatory and elective subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		schema, err := rt.service.Subjects(cmd.Context())
		if err != nil {
			return err
		}
		printSubjects(cmd.OutOrStdout(), schema)
		return nil
	},
}

var institutionsCmd = &cobra.Command{
	Use:   "institutions",
	Short: "List supported institutions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		ids, err := rt.service.Institutions(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", id, models.InstitutionName(id, rt.cfg.Institutions))
		}
		return nil
	},
}

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List the programs of one institution, grouped by faculty",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		programs, err := rt.service.Programs(cmd.Context(), programsInstitution)
		if err != nil {
			return err
		}
		printPrograms(cmd.OutOrStdout(), programs)
		return nil
	},
}

func init() {
	programsCmd.Flags().StringVarP(&programsInstitution, "institution", "i", "", "institution id")
	_ = programsCmd.MarkFlagRequired("institution")
}

func printSubjects(w io.Writer, schema models.SubjectSchema) {
	section := func(title string, defs []models.SubjectDefinition) {
		fmt.Fprintln(w, title)
		for _, d := range defs {
			units := make([]string, 0, len(d.AllowedUnits))
			for _, u := range d.AllowedUnits {
				units = append(units, fmt.Sprint(u))
			}
			fmt.Fprintf(w, "  %-12s %-24s units: %s\n", d.Name, d.Label(), strings.Join(units, ","))
		}
	}
	section("Mandatory", schema.Mandatory)
	section("Electives", schema.Electives)
}

func printPrograms(w io.Writer, programs []models.Program) {
	var order []string
	byFaculty := make(map[string][]models.Program)
	for _, p := range programs {
		key := p.FacultyKey()
		if key == "" {
			key = "(no faculty)"
		}
		if _, ok := byFaculty[key]; !ok {
			order = append(order, key)
		}
		byFaculty[key] = append(byFaculty[key], p)
	}
	for _, faculty := range order {
		fmt.Fprintln(w, faculty)
		for _, p := range byFaculty[faculty] {
			fmt.Fprintf(w, "  %-14s %s\n", p.ID, p.Name)
		}
	}
}
