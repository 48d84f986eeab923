package main

import "github.com/stupid-simple/pinpack/config"

// InputFlags select the table, its files and the settings of a package.
type InputFlags struct {
	Table       string              `help:"table file path (.vpx or .fp)" short:"t" required:""`
	Name        string              `help:"table name, defaults to the table file name"`
	File        []string            `help:"additional file as CATEGORY=PATH, repeatable" short:"f" placeholder:"CATEGORY=PATH"`
	Custom      []string            `help:"custom file as LOCATION=PATH, repeatable; a trailing :table names it after the table" placeholder:"LOCATION=PATH[:table]"`
	Template    string              `help:"settings template id"`
	TemplateDir string              `help:"directory of extra settings templates" type:"existingdir"`
	Settings    string              `help:"settings file path" type:"existingfile"`
	Compression string              `help:"override the compression level (none, fast, normal, maximum)"`
	MaxSize     config.SizeArgument `help:"maximum size of each input file"`
}

type ProjectFlags struct {
	Database string `help:"database path" short:"d" required:""`
	User     string `help:"user id owning the projects" short:"u" required:""`
}

type Command struct {
	Version struct{} `cmd:"" help:"Print version information."`
	Build   struct {
		InputFlags `embed:""`
		Output     string   `help:"output directory path" short:"o" required:""`
		Database   string   `help:"database path, packages are recorded when set" short:"d"`
		Project    string   `help:"use the settings saved in this project, requires --database and --user"`
		User       string   `help:"user id owning the project" short:"u"`
		Store      []string `help:"glob patterns of entries stored without compression" default:"*.png,*.jpg,*.jpeg,*.mp4,*.mp3,*.zip"`
		Upload     bool     `help:"upload the package to the bucket configured in the environment"`
		Overwrite  bool     `help:"replace an existing package with the same name"`
		DryRun     bool     `help:"don't write any files, just print the output"`
	} `cmd:"" help:"Build a table package."`
	Preview struct {
		InputFlags `embed:""`
	} `cmd:"" help:"Print the layout of a package without building it."`
	Inspect struct {
		Package string `help:"package file path" short:"p" required:"" type:"existingfile"`
	} `cmd:"" help:"List the entries of a package."`
	Install struct {
		Package   string `help:"package file path" short:"p" required:"" type:"existingfile"`
		Dest      string `help:"installation root directory" short:"D" required:""`
		Overwrite bool   `help:"replace installed files that were modified"`
		DryRun    bool   `help:"don't write any files, just print the output"`
	} `cmd:"" help:"Extract a package into an installation directory."`
	Templates struct {
		TemplateDir string `help:"directory of extra settings templates" type:"existingdir"`
	} `cmd:"" help:"List the settings templates."`
	Settings struct {
		Export struct {
			Template    string `help:"settings template id, defaults are exported when empty"`
			TemplateDir string `help:"directory of extra settings templates" type:"existingdir"`
			Output      string `help:"output file path, standard output when empty" short:"o"`
		} `cmd:"" help:"Export settings as a settings file."`
		Check struct {
			File string `help:"settings file path" short:"f" required:"" type:"existingfile"`
		} `cmd:"" help:"Validate a settings file and print the resolved layout rules."`
	} `cmd:"" help:"Manage settings files."`
	Project struct {
		Create struct {
			ProjectFlags `embed:""`
			Name         string `help:"project name" short:"n" required:""`
			GameType     string `help:"game type" enum:"vpx,fp" default:"vpx"`
			Template     string `help:"settings template id"`
			TemplateDir  string `help:"directory of extra settings templates" type:"existingdir"`
			Settings     string `help:"settings file path" type:"existingfile"`
		} `cmd:"" help:"Save a new project."`
		List struct {
			ProjectFlags `embed:""`
		} `cmd:"" help:"List saved projects."`
		Show struct {
			ProjectFlags `embed:""`
			ID           string `help:"project id" required:""`
		} `cmd:"" help:"Print the settings of a project."`
		Update struct {
			ProjectFlags `embed:""`
			ID           string `help:"project id" required:""`
			Name         string `help:"new project name" short:"n"`
			GameType     string `help:"new game type (vpx or fp)"`
			Settings     string `help:"replace the settings with this settings file" type:"existingfile"`
		} `cmd:"" help:"Change a project."`
		Delete struct {
			ProjectFlags `embed:""`
			ID           string `help:"project id" required:""`
		} `cmd:"" help:"Delete a project."`
	} `cmd:"" help:"Manage saved projects."`
	Packages struct {
		List struct {
			Database string `help:"database path" short:"d" required:""`
			Table    string `help:"only list packages of this table name"`
			BySize   bool   `help:"order by total size instead of creation time"`
			Limit    int    `help:"maximum number of packages to list"`
		} `cmd:"" help:"List recorded packages."`
		Clean struct {
			Database string `help:"database path" short:"d" required:""`
			Table    string `help:"only clean up packages of this table name"`
			Keep     int    `help:"number of newest packages to keep per table" default:"1"`
			DryRun   bool   `help:"don't delete any files, just print the output"`
		} `cmd:"" help:"Delete outdated package files and forget missing ones."`
	} `cmd:"" help:"Manage recorded packages."`
	Daemon struct {
		Config   string `help:"config file path" short:"c" required:""`
		Database string `help:"database path" short:"d"`
		DryRun   bool   `help:"don't write any files, just print the output"`
	} `cmd:"" help:"Rebuild configured packages on a schedule."`
}
