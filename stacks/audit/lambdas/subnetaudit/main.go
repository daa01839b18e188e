// -------------------------------------------------------------------------------------------------
// Subnet Audit Lambda
// - lists the subnets of the platform VPC and checks them against the planned address layout
// - flags subnets outside the VPC range, overlaps and CIDRs nobody planned
// - writes the findings as a JSON report to the audit bucket
// -------------------------------------------------------------------------------------------------
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/netforge/infra/lib/netmath"
)

type Report struct {
	VpcId           string    `json:"vpcId"`
	GeneratedAt     time.Time `json:"generatedAt"`
	ExpectedCidr    string    `json:"expectedCidr"`
	SubnetCount     int       `json:"subnetCount"`
	Findings        []string  `json:"findings"`
	UnplannedCidrs  []string  `json:"unplannedCidrs"`
	MissingCidrs    []string  `json:"missingCidrs"`
	OverlappingSets []string  `json:"overlappingSets"`
}

var (
	ec2Client *ec2.EC2
	s3Client  *s3.S3
)

func init() {
	sess := session.Must(session.NewSession())
	ec2Client = ec2.New(sess)
	s3Client = s3.New(sess)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
}

func HandleRequest(ctx context.Context) error {
	vpcID := os.Getenv("VPC_ID")
	expectedCidr := os.Getenv("EXPECTED_VPC_CIDR")
	bucket := os.Getenv("REPORT_BUCKET")
	if vpcID == "" || expectedCidr == "" || bucket == "" {
		return fmt.Errorf("VPC_ID, EXPECTED_VPC_CIDR and REPORT_BUCKET must be set")
	}

	vpcBlock, err := netmath.ParseBlock(expectedCidr)
	if err != nil {
		return fmt.Errorf("bad EXPECTED_VPC_CIDR %q: %w", expectedCidr, err)
	}

	planned := map[string]bool{}
	for _, cidr := range strings.Split(os.Getenv("EXPECTED_SUBNET_CIDRS"), ",") {
		if cidr = strings.TrimSpace(cidr); cidr != "" {
			planned[cidr] = false
		}
	}

	log.Printf("Auditing VPC %s against %s with %d planned subnets", vpcID, expectedCidr, len(planned))

	resp, err := ec2Client.DescribeSubnetsWithContext(ctx, &ec2.DescribeSubnetsInput{
		Filters: []*ec2.Filter{
			{Name: aws.String("vpc-id"), Values: []*string{aws.String(vpcID)}},
		},
	})
	if err != nil {
		log.Printf("Error describing subnets: %v", err)
		return err
	}

	report := Report{
		VpcId:        vpcID,
		GeneratedAt:  time.Now().UTC(),
		ExpectedCidr: expectedCidr,
		SubnetCount:  len(resp.Subnets),
	}

	var actual []netmath.Block
	for _, subnet := range resp.Subnets {
		cidr := aws.StringValue(subnet.CidrBlock)
		block, err := netmath.ParseBlock(cidr)
		if err != nil {
			report.Findings = append(report.Findings,
				fmt.Sprintf("subnet %s has unparseable CIDR %q", aws.StringValue(subnet.SubnetId), cidr))
			continue
		}
		actual = append(actual, block)

		if !vpcBlock.Contains(block) {
			report.Findings = append(report.Findings,
				fmt.Sprintf("subnet %s (%s) lies outside the VPC range %s", aws.StringValue(subnet.SubnetId), cidr, expectedCidr))
		}
		if _, ok := planned[cidr]; ok {
			planned[cidr] = true
		} else {
			report.UnplannedCidrs = append(report.UnplannedCidrs, cidr)
		}
	}

	for cidr, seen := range planned {
		if !seen {
			report.MissingCidrs = append(report.MissingCidrs, cidr)
		}
	}

	for i := 0; i < len(actual); i++ {
		for j := i + 1; j < len(actual); j++ {
			if actual[i].Overlaps(actual[j]) {
				report.OverlappingSets = append(report.OverlappingSets,
					fmt.Sprintf("%s <> %s", actual[i], actual[j]))
			}
		}
	}

	sort.Strings(report.UnplannedCidrs)
	sort.Strings(report.MissingCidrs)

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	key := fmt.Sprintf("reports/%s.json", report.GeneratedAt.Format("2006-01-02T15-04-05"))
	_, err = s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.Printf("Error uploading report: %v", err)
		return err
	}

	log.Printf("Audit complete: %d findings, %d unplanned, %d missing. Report at s3://%s/%s",
		len(report.Findings), len(report.UnplannedCidrs), len(report.MissingCidrs), bucket, key)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
