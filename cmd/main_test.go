package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		dir := t.TempDir()
		cfg := filepath.Join(dir, "config.yaml")
		env := filepath.Join(dir, ".env.secret")
		convey.So(os.WriteFile(cfg, []byte("record_file: "+filepath.Join(dir, "record.txt")+"\n"), 0o600), convey.ShouldBeNil)

		convey.Convey("When the participants are valid", func() {
			convey.So(os.WriteFile(env, []byte(
				"SMTP_FROM=santa@example.com\nSANTA_1_NAME=Ann\nSANTA_1_MAIL=ann@example.com\nSANTA_2_NAME=Ben\nSANTA_2_MAIL=ben@example.com\n",
			), 0o600), convey.ShouldBeNil)

			convey.Convey("Then a dry-run exits with 0", func() {
				convey.So(run([]string{"--config", cfg, "--env-file", env}), convey.ShouldEqual, 0)
				_, err := os.Stat(filepath.Join(dir, "record.txt"))
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When there is a single participant", func() {
			convey.So(os.WriteFile(env, []byte(
				"SMTP_FROM=santa@example.com\nSANTA_1_NAME=Ann\nSANTA_1_MAIL=ann@example.com\n",
			), 0o600), convey.ShouldBeNil)

			convey.Convey("Then it exits with 1", func() {
				convey.So(run([]string{"--config", cfg, "--env-file", env}), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			convey.Convey("Then it exits with 1", func() {
				convey.So(run([]string{"--config", filepath.Join(dir, "missing.yaml")}), convey.ShouldEqual, 1)
			})
		})
	})
}
