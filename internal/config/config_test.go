package config

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEnvOr(t *testing.T) {
	Convey("Given an unset environment variable", t, func() {
		So(os.Unsetenv("TEM_TEST_ENVOR"), ShouldBeNil)
		Convey("envOr returns the default", func() {
			So(envOr("TEM_TEST_ENVOR", "fallback"), ShouldEqual, "fallback")
		})
	})

	Convey("Given a set environment variable", t, func() {
		So(os.Setenv("TEM_TEST_ENVOR", "  configured  "), ShouldBeNil)
		defer os.Unsetenv("TEM_TEST_ENVOR")
		Convey("envOr returns the trimmed value", func() {
			So(envOr("TEM_TEST_ENVOR", "fallback"), ShouldEqual, "configured")
		})
	})
}

func TestEnvOrInt(t *testing.T) {
	Convey("Given a valid integer environment variable", t, func() {
		So(os.Setenv("TEM_TEST_ENVORINT", "7"), ShouldBeNil)
		defer os.Unsetenv("TEM_TEST_ENVORINT")
		So(envOrInt("TEM_TEST_ENVORINT", 4), ShouldEqual, 7)
	})

	Convey("Given a non-numeric environment variable", t, func() {
		So(os.Setenv("TEM_TEST_ENVORINT", "not-a-number"), ShouldBeNil)
		defer os.Unsetenv("TEM_TEST_ENVORINT")
		So(envOrInt("TEM_TEST_ENVORINT", 4), ShouldEqual, 4)
	})

	Convey("Given no environment variable", t, func() {
		So(os.Unsetenv("TEM_TEST_ENVORINT"), ShouldBeNil)
		So(envOrInt("TEM_TEST_ENVORINT", 4), ShouldEqual, 4)
	})
}

func TestEnvOrBool(t *testing.T) {
	Convey("Given a valid boolean environment variable", t, func() {
		So(os.Setenv("TEM_TEST_ENVORBOOL", "false"), ShouldBeNil)
		defer os.Unsetenv("TEM_TEST_ENVORBOOL")
		So(envOrBool("TEM_TEST_ENVORBOOL", true), ShouldBeFalse)
	})

	Convey("Given an unparseable boolean environment variable", t, func() {
		So(os.Setenv("TEM_TEST_ENVORBOOL", "maybe"), ShouldBeNil)
		defer os.Unsetenv("TEM_TEST_ENVORBOOL")
		So(envOrBool("TEM_TEST_ENVORBOOL", true), ShouldBeTrue)
	})
}

func TestFirstNonEmpty(t *testing.T) {
	Convey("Given a list with leading empty values", t, func() {
		So(firstNonEmpty("", "", "configured", "ignored"), ShouldEqual, "configured")
	})

	Convey("Given an all-empty list", t, func() {
		So(firstNonEmpty("", ""), ShouldEqual, "")
	})
}
