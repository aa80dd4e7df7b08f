package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/twpayne/go-mapgrid"
)

func run() error {
	landmarksPath := flag.String("landmarks-path", os.Getenv("MAPGRID_LANDMARKS_PATH"), "path to landmark table")
	zoom := flag.Int("zoom", 15, "grid zoom level")
	flag.Parse()

	if flag.NArg() != 2 {
		return errors.New("syntax: mapgrid-example longitude latitude")
	}
	lon, err := strconv.ParseFloat(flag.Arg(0), 64)
	if err != nil {
		return err
	}
	lat, err := strconv.ParseFloat(flag.Arg(1), 64)
	if err != nil {
		return err
	}

	registry, err := mapgrid.NewRegistry()
	if err != nil {
		return err
	}

	crss := []*mapgrid.CRS{mapgrid.WGS84, mapgrid.TWD97, mapgrid.WebMercator, mapgrid.Taipower}
	if *landmarksPath != "" {
		f, err := os.Open(*landmarksPath)
		if err != nil {
			return err
		}
		landmarks, err := mapgrid.ParseLandmarks(f)
		f.Close()
		if err != nil {
			return err
		}
		crss = append(crss, mapgrid.NewRescueCRS(landmarks))
	}

	point := mapgrid.Point{X: lon, Y: lat}
	for _, crs := range crss {
		converted, err := registry.Convert(point, mapgrid.WGS84, crs)
		if err != nil {
			return err
		}
		for _, notation := range mapgrid.NotationsFor(crs) {
			switch notation {
			case mapgrid.NotationDecimal:
				x, y := mapgrid.ToDegreeString(converted.X, converted.Y)
				fmt.Printf("%s %s: %s %s\n", crs.Name(), notation, x, y)
			case mapgrid.NotationDegreeMinute:
				x, y := mapgrid.ToDegreeMinuteString(converted.X, converted.Y)
				fmt.Printf("%s %s: %s %s\n", crs.Name(), notation, x, y)
			case mapgrid.NotationDegreeMinuteSecond:
				x, y := mapgrid.ToDegreeMinuteSecondString(converted.X, converted.Y)
				fmt.Printf("%s %s: %s %s\n", crs.Name(), notation, x, y)
			case mapgrid.NotationGridMask:
				if mask, ok := crs.MaskCodec().Encode(converted); ok {
					fmt.Printf("%s %s: %s\n", crs.Name(), notation, mask)
				} else {
					fmt.Printf("%s %s: out of range\n", crs.Name(), notation)
				}
			case mapgrid.NotationRawXY:
				x, y := mapgrid.ToIntPairString(converted.X, converted.Y)
				fmt.Printf("%s %s: %s %s\n", crs.Name(), notation, x, y)
			}
		}
	}

	generator := mapgrid.NewGenerator(registry)
	bounds := mapgrid.Bounds{
		SouthWest: mapgrid.Point{X: lon - 0.01, Y: lat - 0.01},
		NorthEast: mapgrid.Point{X: lon + 0.01, Y: lat + 0.01},
	}
	for _, crs := range crss {
		features, err := generator.Generate(bounds, *zoom, crs)
		if err != nil {
			return err
		}
		fmt.Printf("%s grid at zoom %d: %d lines, %d markers\n", crs.Name(), *zoom, len(features.Lines), len(features.Markers))
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
