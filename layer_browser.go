package main

import (
	"flag"
	"log"

	"github.com/mogaika/layer_browser/config"
	"github.com/mogaika/layer_browser/web"

	_ "github.com/mogaika/layer_browser/extract/glb"
)

func main() {
	var addr, cfgPath, webPath string
	var debug bool
	flag.StringVar(&addr, "i", "", "Address of server (overrides config file)")
	flag.StringVar(&cfgPath, "config", "", "Path to yaml config file")
	flag.StringVar(&webPath, "web", "", "Path to web ui files (overrides config file)")
	flag.BoolVar(&debug, "debug", false, "Dump decoded gltf metadata to log")
	flag.Parse()

	if cfgPath != "" {
		if err := config.Load(cfgPath); err != nil {
			log.Fatalf("Failed to load config %q: %v", cfgPath, err)
		}
	}
	if addr != "" {
		config.SetListenAddr(addr)
	}
	if webPath != "" {
		config.SetWebDir(webPath)
	}
	if debug {
		config.SetDebug(true)
	}

	if err := web.StartServer(config.ListenAddr(), config.WebDir()); err != nil {
		log.Fatal(err)
	}
}
