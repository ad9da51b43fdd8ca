package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/folio/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new folio site",
	Example: `  folio new myblog
  folio new sites/jane-doe`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNew(cmd.OutOrStdout(), args[0])
	},
}

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	ProjectName   string
	SiteName      string
	SessionSecret string
}

func runNew(w io.Writer, dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	name := filepath.Base(dir)
	data := scaffoldData{
		ProjectName:   name,
		SiteName:      toTitle(name),
		SessionSecret: strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
	}

	fmt.Fprintf(w, "Creating new folio site: %s\n\n", dir)

	root := "templates"
	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		outPath := strings.TrimSuffix(filepath.Join(dir, relPath), ".tmpl")
		if filepath.Base(outPath) == "dotenv" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		src, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if !strings.HasSuffix(path, ".tmpl") {
			if err := os.WriteFile(outPath, src, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(w, "  created %s\n", outPath)
			return nil
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}

		fmt.Fprintf(w, "  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Done! Next steps:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  cd %s\n", dir)
	fmt.Fprintln(w, "  folio serve")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write posts under content/blog and list projects in data/projects.yaml.")
	fmt.Fprintln(w, "Change admin_password in config.yaml before deploying.")
	return nil
}

var titleCaser = cases.Title(language.English)

// toTitle converts a hyphenated name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func toTitle(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "-", " "))
}
