/*
Package cli provides helpers shared by the harbor command.

Errors:

Commands wrap failures in CommandError so the process prints which
subcommand failed, and configuration problems in ConfigError:

	if err := cfg.Validate(); err != nil {
		return cli.NewConfigError(path, err.Error())
	}

Output Formatting:

Commands that print structured results accept --output text|json:

	format, err := cli.ParseFormat(flag)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), info)

Signal handling is not here; harbor run uses graterm for that.
*/
package cli
