package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/tesina/core/course"
	appfs "github.com/trezcool/tesina/fs"
)

type sedeFixture struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type courseFixture struct {
	Sede        string `json:"sede"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// seed loads the sede and course fixtures. Existing rows are left untouched
// so the command can run on every deploy.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	data, err := appfs.FS.ReadFile("fixtures/sedes.json")
	if err != nil {
		return errors.Wrap(err, "reading sede fixtures")
	}
	var sedeFixtures []sedeFixture
	if err := json.Unmarshal(data, &sedeFixtures); err != nil {
		return errors.Wrap(err, "parsing sede fixtures")
	}

	existing, err := cli.courseRepo.QuerySedes(ctx)
	if err != nil {
		return err
	}
	sedeIDs := make(map[string]int, len(existing))
	for _, s := range existing {
		sedeIDs[s.Name] = s.ID
	}
	for _, fix := range sedeFixtures {
		if _, ok := sedeIDs[fix.Name]; ok {
			continue
		}
		s, err := cli.courseRepo.CreateSede(ctx, course.Sede{
			Name:      fix.Name,
			City:      fix.City,
			CreatedAt: course.NowFunc().UTC(),
		})
		if err != nil {
			return errors.Wrapf(err, "creating sede %q", fix.Name)
		}
		sedeIDs[s.Name] = s.ID
		logger.Printf("created sede %q", s.Name)
	}

	data, err = appfs.FS.ReadFile("fixtures/courses.json")
	if err != nil {
		return errors.Wrap(err, "reading course fixtures")
	}
	var courseFixtures []courseFixture
	if err := json.Unmarshal(data, &courseFixtures); err != nil {
		return errors.Wrap(err, "parsing course fixtures")
	}

	courses, err := cli.courseRepo.QueryCourses(ctx, nil, nil)
	if err != nil {
		return err
	}
	codes := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		codes[c.Code] = struct{}{}
	}
	for _, fix := range courseFixtures {
		if _, ok := codes[fix.Code]; ok {
			continue
		}
		sedeID, ok := sedeIDs[fix.Sede]
		if !ok {
			return fmt.Errorf("course %q references unknown sede %q", fix.Code, fix.Sede)
		}
		now := course.NowFunc().UTC()
		c, err := cli.courseRepo.CreateCourse(ctx, course.Course{
			SedeID:      sedeID,
			Name:        fix.Name,
			Code:        fix.Code,
			Description: fix.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return errors.Wrapf(err, "creating course %q", fix.Code)
		}
		codes[c.Code] = struct{}{}
		logger.Printf("created course %q", c.Code)
	}
	return nil
}
