package main

import "github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/cli"

func main() {
	cli.Execute()
}
