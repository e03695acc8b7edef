package main

import (
	"fmt"
	"sync"

	"github.com/fxpgr/go-reya-client/api/public"
	"github.com/fxpgr/go-reya-client/models"
)

func main() {
	cli, err := public.NewClient("reya")
	if err != nil {
		fmt.Println(err)
		panic(err)
	}
	markets, err := cli.FetchMarkets()
	if err != nil {
		fmt.Println(err)
		panic(err)
	}
	zeroCounter := 0
	wg := &sync.WaitGroup{}
	for _, market := range markets {
		wg.Add(1)
		go func(m *models.Market) {
			defer wg.Done()
			ticker, err := cli.FetchTicker(m.Symbol)
			if err != nil {
				fmt.Println(err)
				return
			}
			if ticker.Last.IsZero() {
				zeroCounter++
			}
		}(market)
	}
	wg.Wait()
	fmt.Printf("%d %d", len(markets), zeroCounter)
}
