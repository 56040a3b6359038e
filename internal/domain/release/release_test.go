package release_test

import (
	"testing"
	"time"

	release "github.com/okian/advientea/internal/domain/release"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOracleState(t *testing.T) {
	Convey("Given an oracle for season 2025 in a fixed zone", t, func() {
		zone := time.FixedZone("CET", 3600)
		oracle := release.NewOracle(2025,
			release.WithLocation(zone),
			release.WithPersonRevealDay(28),
		)
		at := func(day, h, m int) time.Time {
			return time.Date(2025, time.December, day, h, m, 0, 0, zone)
		}

		Convey("When asking before the day has arrived", func() {
			st := oracle.State(at(4, 23, 59), 5, release.RoleMember, false)

			Convey("Then nothing is released", func() {
				So(st.NameHintReleased, ShouldBeFalse)
				So(st.IngredientsReleased, ShouldBeFalse)
				So(st.TeaReleased, ShouldBeFalse)
				So(st.StoryReleased, ShouldBeFalse)
			})
		})

		Convey("When walking through the day's release hours", func() {
			Convey("Then the name hint opens at 7:00", func() {
				So(oracle.State(at(5, 6, 59), 5, release.RoleMember, false).NameHintReleased, ShouldBeFalse)
				So(oracle.State(at(5, 7, 0), 5, release.RoleMember, false).NameHintReleased, ShouldBeTrue)
			})

			Convey("Then the ingredients open at 13:00", func() {
				So(oracle.State(at(5, 12, 59), 5, release.RoleMember, false).IngredientsReleased, ShouldBeFalse)
				So(oracle.State(at(5, 13, 0), 5, release.RoleMember, false).IngredientsReleased, ShouldBeTrue)
			})

			Convey("Then the tea details open at 18:00", func() {
				So(oracle.State(at(5, 17, 59), 5, release.RoleMember, false).TeaReleased, ShouldBeFalse)
				So(oracle.State(at(5, 18, 0), 5, release.RoleMember, false).TeaReleased, ShouldBeTrue)
			})

			Convey("Then the story opens at 20:00", func() {
				So(oracle.State(at(5, 19, 59), 5, release.RoleMember, false).StoryReleased, ShouldBeFalse)
				So(oracle.State(at(5, 20, 0), 5, release.RoleMember, false).StoryReleased, ShouldBeTrue)
			})
		})

		Convey("When the day is already past", func() {
			st := oracle.State(at(7, 0, 30), 5, release.RoleMember, false)

			Convey("Then every tea channel is released", func() {
				So(st.NameHintReleased, ShouldBeTrue)
				So(st.IngredientsReleased, ShouldBeTrue)
				So(st.TeaReleased, ShouldBeTrue)
				So(st.StoryReleased, ShouldBeTrue)
			})
		})

		Convey("When checking the person-name reveal", func() {
			Convey("Then names stay hidden before the season cutoff", func() {
				st := oracle.State(at(24, 23, 0), 3, release.RoleMember, false)
				So(st.PersonNameReleased, ShouldBeFalse)
			})

			Convey("Then names go public on the cutoff date for every day", func() {
				So(oracle.State(at(28, 0, 0), 3, release.RoleMember, false).PersonNameReleased, ShouldBeTrue)
				So(oracle.State(at(29, 10, 0), 24, release.RoleMember, false).PersonNameReleased, ShouldBeTrue)
			})
		})

		Convey("When an admin simulates the released view", func() {
			st := oracle.State(at(1, 0, 0), 24, release.RoleAdmin, true)

			Convey("Then everything reads as released", func() {
				So(st.TeaReleased, ShouldBeTrue)
				So(st.PersonNameReleased, ShouldBeTrue)
				So(st.StoryReleased, ShouldBeTrue)
			})
		})

		Convey("When a member passes simulate", func() {
			st := oracle.State(at(1, 0, 0), 24, release.RoleMember, true)

			Convey("Then the override is ignored", func() {
				So(st.TeaReleased, ShouldBeFalse)
			})
		})

		Convey("When checking whether a day has been reached", func() {
			So(oracle.DayReached(at(5, 0, 1), 5), ShouldBeTrue)
			So(oracle.DayReached(at(4, 23, 59), 5), ShouldBeFalse)
			So(oracle.DayReached(at(20, 12, 0), 5), ShouldBeTrue)
		})

		Convey("When the clock is in a different zone", func() {
			// 06:30 UTC is 07:30 in the season zone: hint released.
			utc := time.Date(2025, time.December, 5, 6, 30, 0, 0, time.UTC)
			st := oracle.State(utc, 5, release.RoleMember, false)
			So(st.NameHintReleased, ShouldBeTrue)
			So(st.IngredientsReleased, ShouldBeFalse)
		})
	})
}
