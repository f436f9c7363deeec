package cmd

import (
	"ecomapa/cmd/client/cmd/auth"
	"ecomapa/cmd/client/cmd/geo"
	"ecomapa/cmd/client/cmd/point"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.StatusCmd)

	rootCmd.AddCommand(point.PointCmd)
	point.PointCmd.AddCommand(point.AddCmd)
	point.PointCmd.AddCommand(point.ListCmd)
	point.PointCmd.AddCommand(point.MineCmd)
	point.PointCmd.AddCommand(point.GetCmd)
	point.PointCmd.AddCommand(point.DeleteCmd)
	point.PointCmd.AddCommand(point.TypesCmd)

	rootCmd.AddCommand(geo.GeoCmd)
	geo.GeoCmd.AddCommand(geo.ForwardCmd)
	geo.GeoCmd.AddCommand(geo.ReverseCmd)
}
