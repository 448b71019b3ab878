package main

import "github.com/saadjs/kcal-balance/cmd/balance"

func main() {
	balance.Execute()
}
