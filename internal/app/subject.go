package app

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/records"
)

var (
	subjectColor string
	subjectGoal  float64
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Set weekly goals and colors per subject",
}

var subjectSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a subject",
	Example: `  studywatch subject set Math --goal 6 --color "#4f8cff"
  studywatch subject set Physics --goal 3`,
	Args: cobra.ExactArgs(1),
	RunE: runSubjectSet,
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subjects and their weekly goals",
	Args:  cobra.NoArgs,
	RunE:  runSubjectList,
}

func init() {
	subjectSetCmd.Flags().StringVar(&subjectColor, "color", "", "Display color as #rrggbb")
	subjectSetCmd.Flags().Float64Var(&subjectGoal, "goal", 0, "Weekly goal in hours")
	subjectCmd.AddCommand(subjectSetCmd, subjectListCmd)
	rootCmd.AddCommand(subjectCmd)
}

func runSubjectSet(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("subject name must not be empty")
	}
	if subjectColor != "" && !hexColor.MatchString(subjectColor) {
		return fmt.Errorf("invalid --color %q (want #rrggbb)", subjectColor)
	}
	if !isFinite(subjectGoal) || subjectGoal < 0 {
		return fmt.Errorf("--goal must be a non-negative number of hours")
	}

	subject := records.Subject{Name: name, Color: subjectColor, GoalHours: subjectGoal}

	// Keep the stored values for flags that were not given.
	existing, err := db.ListSubjects()
	if err != nil {
		return err
	}
	for _, s := range existing {
		if s.Name != name {
			continue
		}
		if !cmd.Flags().Changed("color") {
			subject.Color = s.Color
		}
		if !cmd.Flags().Changed("goal") {
			subject.GoalHours = s.GoalHours
		}
	}

	if err := db.UpsertSubject(subject); err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(os.Stdout, subject)
	}
	fmt.Printf("Saved %s (goal %.1fh/week)\n", output.SubjectStyle(subject.Color).Render(name), subject.GoalHours)
	return nil
}

func runSubjectList(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	subjects, err := db.ListSubjects()
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(os.Stdout, subjects)
	}

	if len(subjects) == 0 {
		fmt.Println("No subjects yet. Use 'studywatch subject set <name> --goal <hours>' to add one.")
		return nil
	}

	fmt.Println(output.Section("Subjects"))
	fmt.Println()
	tbl := output.NewTable("Subject", "Weekly Goal", "Color").AlignRight(1)
	for _, s := range subjects {
		tbl.AddRow(output.SubjectStyle(s.Color).Render(s.Name), fmt.Sprintf("%.1fh", s.GoalHours), s.Color)
	}
	tbl.Print()
	return nil
}
